package middlewarex

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"adminconsole/internal/domain/session"
	sessionsvc "adminconsole/internal/services/session"
)

// SessionLookup resolves a session id into a live session.
type SessionLookup interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

// SessionAuth requires "Authorization: Bearer <session id>" naming a live session.
func SessionAuth(sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				unauthorized(w, "Missing session")
				return
			}
			id := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			sess, err := sessions.Get(r.Context(), id)
			if err != nil {
				if !errors.Is(err, sessionsvc.ErrUnauthenticated) {
					log.Error().Err(err).Msg("session lookup failed")
				}
				unauthorized(w, "Session expired, please sign in again")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
