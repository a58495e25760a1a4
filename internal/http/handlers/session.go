package handlers

import (
	"net/http"

	sessionsvc "adminconsole/internal/services/session"
)

func Logout(sessions *sessionsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r)
		if !ok {
			return
		}
		if err := sessions.Logout(r.Context(), sess.ID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func GetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, presentSession(sess))
	}
}

type selectCorporateReq struct {
	CorporateID string `json:"corporate_id"`
}

// SelectCorporate switches the corporate every project-level list and call uses
func SelectCorporate(sessions *sessionsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r)
		if !ok {
			return
		}
		var req selectCorporateReq
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if req.CorporateID == "" {
			writeMessage(w, http.StatusUnprocessableEntity, "Corporate is required")
			return
		}

		updated, err := sessions.SelectCorporate(r.Context(), sess.ID, req.CorporateID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, presentSession(updated))
	}
}

func RefreshCorporates(sessions *sessionsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r)
		if !ok {
			return
		}
		updated, err := sessions.RefreshCorporates(r.Context(), sess.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, presentSession(updated))
	}
}
