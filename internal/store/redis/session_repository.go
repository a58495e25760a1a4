package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"adminconsole/internal/domain/session"
	"adminconsole/internal/store/repositories"
)

const sessionKeyPrefix = "adminconsole:session:"

// sessionRepository implements SessionRepository on Redis; each session is one
// JSON value that expires with the session.
type sessionRepository struct {
	client *goredis.Client
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(client *goredis.Client) repositories.SessionRepository {
	return &sessionRepository{client: client}
}

// Save stores the session and resets its expiry to ttl.
func (r *sessionRepository) Save(ctx context.Context, s *session.Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.client.Set(ctx, sessionKey(s.ID), data, ttl).Err()
}

// FindByID loads a session, returning repositories.ErrNotFound once it expired.
func (r *sessionRepository) FindByID(ctx context.Context, id string) (*session.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	var s session.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil && !errors.Is(err, goredis.Nil) {
		return err
	}
	return nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
