package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"adminconsole/internal/domain/corporate"
	sessionsvc "adminconsole/internal/services/session"
	"adminconsole/internal/services/views"
	"adminconsole/internal/upstream"
)

// CreateCorporate registers a corporate and reloads the creator's corporate list
func CreateCorporate(backend *upstream.Client, sessions *sessionsvc.Service, manager *views.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r)
		if !ok {
			return
		}
		var p corporate.Payload
		if !decodeValid(w, r, &p) {
			return
		}

		resp, err := backend.CreateCorporate(r.Context(), sess.Token, p)
		if err == nil {
			if _, rerr := sessions.RefreshCorporates(r.Context(), sess.ID); rerr != nil {
				log.Warn().Err(rerr).Str("session_id", sess.ID).Msg("corporate list refresh failed")
			}
		}
		relay(w, r, http.StatusCreated, resp, err, invalidator(manager), views.NamespaceCorporates)
	}
}

func invalidator(manager *views.Manager) func(...string) {
	return func(namespaces ...string) {
		for _, ns := range namespaces {
			manager.Invalidate(ns)
		}
	}
}
