package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"adminconsole/internal/domain/phase"
	"adminconsole/internal/services/views"
	"adminconsole/internal/upstream"
)

func CreatePhase(backend *upstream.Client, manager *views.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, cid, ok := selectedCorporate(w, r)
		if !ok {
			return
		}
		var p phase.Payload
		if !decodeValid(w, r, &p) {
			return
		}
		resp, err := backend.CreatePhase(r.Context(), sess.Token, cid, chi.URLParam(r, "projectID"), p)
		relay(w, r, http.StatusCreated, resp, err, invalidator(manager), views.NamespacePhases)
	}
}

// UpdatePhase also refreshes task groups, which list their phase.
func UpdatePhase(backend *upstream.Client, manager *views.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, cid, ok := selectedCorporate(w, r)
		if !ok {
			return
		}
		var p phase.Payload
		if !decodeValid(w, r, &p) {
			return
		}
		resp, err := backend.UpdatePhase(r.Context(), sess.Token, cid, chi.URLParam(r, "projectID"), chi.URLParam(r, "phaseID"), p)
		relay(w, r, http.StatusOK, resp, err, invalidator(manager), views.NamespacePhases, views.NamespaceTaskGroups)
	}
}
