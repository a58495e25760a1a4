package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"adminconsole/internal/services/views"
)

type openViewReq struct {
	Resource views.Resource `json:"resource"`
	views.OpenParams
}

// OpenView starts a list view for the session and returns its first snapshot
func OpenView(manager *views.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r)
		if !ok {
			return
		}
		var req openViewReq
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		info, err := manager.Open(sess, req.Resource, req.OpenParams)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, info)
	}
}

func GetView(manager *views.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r)
		if !ok {
			return
		}
		info, err := manager.Get(sess.ID, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

// UpdateView changes page, limit, search or filters of a view
func UpdateView(manager *views.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r)
		if !ok {
			return
		}
		var patch views.Patch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, r, err)
			return
		}

		info, err := manager.Update(sess.ID, chi.URLParam(r, "id"), patch)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func RefetchView(manager *views.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")
		if err := manager.Refetch(sess.ID, id); err != nil {
			writeError(w, r, err)
			return
		}
		info, err := manager.Get(sess.ID, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusAccepted, info)
	}
}

func CloseView(manager *views.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r)
		if !ok {
			return
		}
		if err := manager.Close(sess.ID, chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
