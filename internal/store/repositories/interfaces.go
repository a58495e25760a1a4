package repositories

import (
	"context"
	"errors"
	"time"

	"adminconsole/internal/domain/session"
)

// ErrNotFound is returned when a record does not exist or has expired.
var ErrNotFound = errors.New("record not found")

// SessionRepository defines the contract for session data access
type SessionRepository interface {
	Save(ctx context.Context, s *session.Session, ttl time.Duration) error
	FindByID(ctx context.Context, id string) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}
