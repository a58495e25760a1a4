package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"adminconsole/internal/domain/project"
	"adminconsole/internal/services/views"
	"adminconsole/internal/upstream"
)

func GetProject(backend *upstream.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, cid, ok := selectedCorporate(w, r)
		if !ok {
			return
		}
		resp, err := backend.GetProject(r.Context(), sess.Token, cid, chi.URLParam(r, "projectID"))
		relay(w, r, http.StatusOK, resp, err, nil)
	}
}

func CreateProject(backend *upstream.Client, manager *views.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, cid, ok := selectedCorporate(w, r)
		if !ok {
			return
		}
		var p project.Payload
		if !decodeValid(w, r, &p) {
			return
		}
		resp, err := backend.CreateProject(r.Context(), sess.Token, cid, p)
		relay(w, r, http.StatusCreated, resp, err, invalidator(manager), views.NamespaceProjects)
	}
}

func CreateProjectFromTemplate(backend *upstream.Client, manager *views.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, cid, ok := selectedCorporate(w, r)
		if !ok {
			return
		}
		var p project.FromTemplatePayload
		if !decodeValid(w, r, &p) {
			return
		}
		resp, err := backend.CreateProjectFromTemplate(r.Context(), sess.Token, cid, p)
		relay(w, r, http.StatusCreated, resp, err, invalidator(manager), views.NamespaceProjects)
	}
}

func UpdateProject(backend *upstream.Client, manager *views.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, cid, ok := selectedCorporate(w, r)
		if !ok {
			return
		}
		var p project.UpdatePayload
		if !decodeValid(w, r, &p) {
			return
		}
		resp, err := backend.UpdateProject(r.Context(), sess.Token, cid, chi.URLParam(r, "projectID"), p)
		relay(w, r, http.StatusOK, resp, err, invalidator(manager), views.NamespaceProjects)
	}
}

func AssignUsersToProject(backend *upstream.Client, manager *views.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, cid, ok := selectedCorporate(w, r)
		if !ok {
			return
		}
		var p project.AssignmentPayload
		if !decodeValid(w, r, &p) {
			return
		}
		resp, err := backend.AssignUsersToProject(r.Context(), sess.Token, cid, chi.URLParam(r, "projectID"), p)
		relay(w, r, http.StatusOK, resp, err, invalidator(manager), views.NamespaceProjects)
	}
}
