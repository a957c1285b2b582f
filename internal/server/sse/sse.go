// Package sse implements the long-lived GET /events stream: one HTTP
// response per connected device, kept open and fed from the
// notification hub until the client disconnects.
package sse

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cuemby/taskbook/internal/hub"
	"github.com/cuemby/taskbook/internal/server/auth"
	"github.com/cuemby/taskbook/internal/server/metrics"
	"github.com/cuemby/taskbook/pkg/log"
)

// keepAlive is how often a comment line is sent to hold the connection
// open across idle proxies that would otherwise time it out.
const keepAlive = 15 * time.Second

// Handler upgrades the request to an SSE stream of hub events for the
// authenticated user, multiplexing the subscription channel against a
// keep-alive ticker and the request's cancellation.
func Handler(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserID(r.Context())
		if !ok {
			http.Error(w, `{"error":"authentication failed"}`, http.StatusUnauthorized)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, `{"error":"streaming unsupported"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		sub := h.Subscribe(userID.String())
		metrics.ActiveSubscriptions.Inc()
		defer metrics.ActiveSubscriptions.Dec()
		defer sub.Close()

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
				flusher.Flush()
			case ev, ok := <-sub.Chan():
				if !ok {
					return
				}
				if err := writeEvent(w, ev); err != nil {
					log.Logger.Debug().Err(err).Msg("writing sse event")
					return
				}
				flusher.Flush()
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, ev hub.Event) error {
	payload := "items"
	if ev.Archived {
		payload = "archive"
	}
	_, err := fmt.Fprintf(w, "event: data_changed\ndata: %s\n\n", payload)
	return err
}
