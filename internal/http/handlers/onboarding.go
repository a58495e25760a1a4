package handlers

import (
	"net/http"
	"time"

	"adminconsole/internal/domain/auth"
	"adminconsole/internal/domain/corporate"
	"adminconsole/internal/domain/session"
	sessionsvc "adminconsole/internal/services/session"
)

type sessionResp struct {
	SessionID         string                `json:"session_id"`
	User              auth.User             `json:"user"`
	SelectedCorporate string                `json:"selected_corporate"`
	Corporates        []corporate.Corporate `json:"corporates"`
	CreatedAt         time.Time             `json:"created_at"`
}

// presentSession leaves the upstream token out of responses.
func presentSession(s *session.Session) sessionResp {
	return sessionResp{
		SessionID:         s.ID,
		User:              s.User,
		SelectedCorporate: s.SelectedCorporate,
		Corporates:        s.Corporates,
		CreatedAt:         s.CreatedAt,
	}
}

// Login signs a user in and starts a console session
func Login(sessions *sessionsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds auth.LoginCredentials
		if err := decodeJSON(w, r, &creds); err != nil {
			writeError(w, r, err)
			return
		}

		sess, err := sessions.Login(r.Context(), creds)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, presentSession(sess))
	}
}

// Register creates a corporate with its first user
func Register(sessions *sessionsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds auth.RegisterCredentials
		if err := decodeJSON(w, r, &creds); err != nil {
			writeError(w, r, err)
			return
		}

		data, err := sessions.Register(r.Context(), creds)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, data)
	}
}
