package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"adminconsole/internal/domain/session"
	"adminconsole/internal/domain/validation"
	middlewarex "adminconsole/internal/http/middleware"
	sessionsvc "adminconsole/internal/services/session"
	"adminconsole/internal/services/views"
	"adminconsole/internal/upstream/base"
)

// NoCorporateMessage is shown when a corporate-scoped call has no corporate to use.
const NoCorporateMessage = "Please select a corporate first."

const maxBodyBytes = 1 << 20

var errBadJSON = errors.New("invalid JSON body")

type errorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write response failed")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

// writeError maps service errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Message: verr.Message, Field: verr.Field})
		return
	}
	if apiErr, ok := base.AsAPIError(err); ok {
		writeMessage(w, apiErr.StatusCode, apiErr.Message)
		return
	}

	switch {
	case errors.Is(err, errBadJSON):
		writeMessage(w, http.StatusBadRequest, validation.Capitalize(err.Error()))
	case errors.Is(err, sessionsvc.ErrUnauthenticated):
		writeMessage(w, http.StatusUnauthorized, "Session expired, please sign in again")
	case errors.Is(err, sessionsvc.ErrUnknownCorporate):
		writeMessage(w, http.StatusBadRequest, "Corporate is not available for this user")
	case errors.Is(err, views.ErrNoCorporate):
		writeMessage(w, http.StatusBadRequest, NoCorporateMessage)
	case errors.Is(err, views.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "View not found")
	case errors.Is(err, views.ErrUnknownResource), errors.Is(err, views.ErrProjectRequired):
		writeMessage(w, http.StatusBadRequest, validation.Capitalize(err.Error()))
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeMessage(w, http.StatusInternalServerError, base.DefaultErrorMessage)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return nil
}

// currentSession returns the session SessionAuth put on the request.
func currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := middlewarex.Session(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Missing session")
	}
	return sess, ok
}

// selectedCorporate returns the corporate project-level calls run against.
func selectedCorporate(w http.ResponseWriter, r *http.Request) (*session.Session, string, bool) {
	sess, ok := currentSession(w, r)
	if !ok {
		return nil, "", false
	}
	if sess.SelectedCorporate == "" {
		writeMessage(w, http.StatusBadRequest, NoCorporateMessage)
		return nil, "", false
	}
	return sess, sess.SelectedCorporate, true
}
