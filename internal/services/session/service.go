package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"adminconsole/internal/core"
	"adminconsole/internal/domain/auth"
	"adminconsole/internal/domain/corporate"
	"adminconsole/internal/domain/session"
	"adminconsole/internal/store/repositories"
	"adminconsole/internal/upstream"
)

// CorporateListLimit is how many corporates are loaded into a session.
const CorporateListLimit = 1000

var (
	// ErrUnauthenticated means the session is missing, expired or carries an expired token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnknownCorporate means the corporate is not one of the session's corporates.
	ErrUnknownCorporate = errors.New("corporate is not available for this user")
)

// Backend is the part of the upstream API the session service needs.
type Backend interface {
	Login(ctx context.Context, creds auth.LoginCredentials) (upstream.Response[auth.LoginData], error)
	Register(ctx context.Context, creds auth.RegisterCredentials) (upstream.Response[auth.RegisterData], error)
	ListCorporates(ctx context.Context, token string, p corporate.ListParams) (upstream.Response[[]corporate.Corporate], error)
}

// ViewSyncer is told when a session's scope changes or the session ends.
type ViewSyncer interface {
	SyncSession(s *session.Session)
	CloseSession(id string)
}

// Service handles console sessions
type Service struct {
	repo    repositories.SessionRepository
	backend Backend
	views   ViewSyncer
	ttl     time.Duration
	clock   clockwork.Clock
}

// NewService creates a session service. views may be nil.
func NewService(repo repositories.SessionRepository, backend Backend, views ViewSyncer, ttl time.Duration, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{repo: repo, backend: backend, views: views, ttl: ttl, clock: clock}
}

// Login signs the user in upstream, loads their active corporates and stores a
// new session with the first corporate selected.
func (s *Service) Login(ctx context.Context, creds auth.LoginCredentials) (*session.Session, error) {
	creds.Normalize()
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	resp, err := s.backend.Login(ctx, creds)
	if err != nil {
		return nil, &ServiceError{Op: "login", Err: err}
	}
	if _, err := tokenExpiry(resp.Data.Token, s.clock.Now()); err != nil {
		return nil, &ServiceError{Op: "login", Err: err}
	}

	sess := &session.Session{
		ID:        uuid.NewString(),
		User:      resp.Data.User,
		Token:     resp.Data.Token,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.loadCorporates(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	log.Info().
		Str("session_id", sess.ID).
		Str("user_id", sess.User.UserID).
		Int("corporates", len(sess.Corporates)).
		Msg("session started")
	return sess, nil
}

// Register creates a corporate and its first user. The user signs in afterwards.
func (s *Service) Register(ctx context.Context, creds auth.RegisterCredentials) (*auth.RegisterData, error) {
	creds.Corporate.Code = corporate.NormalizeCode(creds.Corporate.Code)
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	resp, err := s.backend.Register(ctx, creds)
	if err != nil {
		return nil, &ServiceError{Op: "register", Err: err}
	}
	return &resp.Data, nil
}

// Get returns a live session.
func (s *Service) Get(ctx context.Context, id string) (*session.Session, error) {
	if id == "" {
		return nil, ErrUnauthenticated
	}
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, &ServiceError{Op: "get_session", Err: err}
	}
	if _, err := tokenExpiry(sess.Token, s.clock.Now()); err != nil {
		log.Debug().Str("session_id", id).Err(err).Msg("session token no longer valid")
		_ = s.Logout(ctx, id)
		return nil, ErrUnauthenticated
	}
	return sess, nil
}

// Logout ends a session and closes its list views.
func (s *Service) Logout(ctx context.Context, id string) error {
	if s.views != nil {
		s.views.CloseSession(id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return &ServiceError{Op: "logout", Err: err}
	}
	return nil
}

// SelectCorporate switches the session to another of its corporates.
func (s *Service) SelectCorporate(ctx context.Context, id, corporateID string) (*session.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := corporate.Find(sess.Corporates, corporateID); !ok {
		return nil, ErrUnknownCorporate
	}
	if sess.SelectedCorporate == corporateID {
		return sess, nil
	}
	sess.SelectedCorporate = corporateID
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	s.sync(sess)
	return sess, nil
}

// RefreshCorporates reloads the session's corporates from upstream.
func (s *Service) RefreshCorporates(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.loadCorporates(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	s.sync(sess)
	return sess, nil
}

func (s *Service) loadCorporates(ctx context.Context, sess *session.Session) error {
	resp, err := s.backend.ListCorporates(ctx, sess.Token, corporate.ListParams{
		Status: string(core.CorporateActive),
		Page:   1,
		Limit:  CorporateListLimit,
	})
	if err != nil {
		return &ServiceError{Op: "list_corporates", Err: err}
	}
	list := resp.Data
	if list == nil {
		list = []corporate.Corporate{}
	}
	sess.SetCorporates(list)
	return nil
}

// save stores the session until the session TTL or the token expiry, whichever
// comes first.
func (s *Service) save(ctx context.Context, sess *session.Session) error {
	now := s.clock.Now()
	ttl := s.ttl
	exp, err := tokenExpiry(sess.Token, now)
	if err != nil {
		return ErrUnauthenticated
	}
	if left := exp.Sub(now); left < ttl {
		ttl = left
	}
	if err := s.repo.Save(ctx, sess, ttl); err != nil {
		return &ServiceError{Op: "save_session", Err: err}
	}
	return nil
}

func (s *Service) sync(sess *session.Session) {
	if s.views != nil {
		s.views.SyncSession(sess)
	}
}

// ServiceError represents a service operation error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("session service [%s]: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
