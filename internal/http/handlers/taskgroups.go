package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"adminconsole/internal/domain/taskgroup"
	"adminconsole/internal/services/views"
	"adminconsole/internal/upstream"
)

func GetTaskGroup(backend *upstream.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, cid, ok := selectedCorporate(w, r)
		if !ok {
			return
		}
		resp, err := backend.GetTaskGroup(r.Context(), sess.Token, cid, chi.URLParam(r, "projectID"), chi.URLParam(r, "taskGroupID"))
		relay(w, r, http.StatusOK, resp, err, nil)
	}
}

func CreateTaskGroup(backend *upstream.Client, manager *views.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, cid, ok := selectedCorporate(w, r)
		if !ok {
			return
		}
		var p taskgroup.Payload
		if !decodeValid(w, r, &p) {
			return
		}
		resp, err := backend.CreateTaskGroup(r.Context(), sess.Token, cid, chi.URLParam(r, "projectID"), p)
		relay(w, r, http.StatusCreated, resp, err, invalidator(manager), views.NamespaceTaskGroups)
	}
}

func UpdateTaskGroup(backend *upstream.Client, manager *views.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, cid, ok := selectedCorporate(w, r)
		if !ok {
			return
		}
		var p taskgroup.Payload
		if !decodeValid(w, r, &p) {
			return
		}
		resp, err := backend.UpdateTaskGroup(r.Context(), sess.Token, cid, chi.URLParam(r, "projectID"), chi.URLParam(r, "taskGroupID"), p)
		relay(w, r, http.StatusOK, resp, err, invalidator(manager), views.NamespaceTaskGroups)
	}
}

func AssignUsersToTaskGroup(backend *upstream.Client, manager *views.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, cid, ok := selectedCorporate(w, r)
		if !ok {
			return
		}
		var p taskgroup.AssignmentPayload
		if !decodeValid(w, r, &p) {
			return
		}
		resp, err := backend.AssignUsersToTaskGroup(r.Context(), sess.Token, cid, chi.URLParam(r, "projectID"), chi.URLParam(r, "taskGroupID"), p)
		relay(w, r, http.StatusOK, resp, err, invalidator(manager), views.NamespaceTaskGroups)
	}
}
