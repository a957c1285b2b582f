package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/cuemby/taskbook/internal/hub"
	"github.com/cuemby/taskbook/internal/server/apierr"
	"github.com/cuemby/taskbook/internal/server/auth"
	"github.com/cuemby/taskbook/internal/server/metrics"
	"github.com/cuemby/taskbook/pkg/store"
	"github.com/cuemby/taskbook/pkg/wire"
)

func bucketFor(archive bool) store.Bucket {
	if archive {
		return store.Archive
	}
	return store.Active
}

func (s *Server) handleItemsGet(archive bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserID(r.Context())
		if !ok {
			apierr.Write(w, store.ErrAuth)
			return
		}
		items, err := s.DB.ReadItems(r.Context(), userID, bucketFor(archive))
		if err != nil {
			apierr.Write(w, err)
			return
		}
		writeJSON(w, http.StatusOK, wire.ItemsPayload{Items: items})
	}
}

func (s *Server) handleItemsPut(archive bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserID(r.Context())
		if !ok {
			apierr.Write(w, store.ErrAuth)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, store.MaxRequestBodyBytes)
		var payload wire.ItemsPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			apierr.Write(w, errInvariant("invalid request body"))
			return
		}
		if len(payload.Items) > store.MaxItemsPerBucket {
			apierr.Write(w, errInvariant("bucket exceeds item limit"))
			return
		}
		for key, enc := range payload.Items {
			if len(enc.Data) > store.MaxEncryptedItemBytes {
				apierr.Write(w, errInvariant("item "+key+" exceeds size limit"))
				return
			}
		}

		b := bucketFor(archive)
		if err := s.DB.ReplaceItems(r.Context(), userID, b, payload.Items); err != nil {
			apierr.Write(w, err)
			return
		}

		metrics.ItemsPerBucket.WithLabelValues(bucketLabel(b)).Observe(float64(len(payload.Items)))
		s.Hub.Notify(userID.String(), hub.Event{Archived: archive})

		w.WriteHeader(http.StatusNoContent)
	}
}

func bucketLabel(b store.Bucket) string {
	if b == store.Archive {
		return "archive"
	}
	return "active"
}
