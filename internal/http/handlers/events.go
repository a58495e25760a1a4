package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"adminconsole/internal/services/views"
)

const keepAliveEvery = 15 * time.Second

// ViewEvents streams a view over Server-Sent Events: a "snapshot" event after
// every state change and a "notice" event for each notice the view raises.
func ViewEvents(manager *views.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r)
		if !ok {
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeMessage(w, http.StatusInternalServerError, "Streaming is not supported")
			return
		}

		id := chi.URLParam(r, "id")
		sub, err := manager.Subscribe(sess.ID, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer sub.Close()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		logger := log.With().Str("view_id", id).Logger()
		logger.Debug().Msg("view stream opened")
		defer logger.Debug().Msg("view stream closed")

		keepAlive := time.NewTicker(keepAliveEvery)
		defer keepAlive.Stop()

		changed := sub.Changed()
		if err := writeEvent(w, flusher, "snapshot", sub.Info()); err != nil {
			return
		}
		for {
			select {
			case <-r.Context().Done():
				return
			case <-sub.Done():
				_ = writeEvent(w, flusher, "closed", map[string]string{"id": id})
				return
			case <-changed:
				changed = sub.Changed()
				if err := writeEvent(w, flusher, "snapshot", sub.Info()); err != nil {
					return
				}
			case n := <-sub.Notices():
				if err := writeEvent(w, flusher, "notice", n); err != nil {
					return
				}
			case <-keepAlive.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
