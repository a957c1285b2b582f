// Package apierr maps the store error taxonomy onto HTTP status codes
// and writes the JSON error body every handler returns on failure.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cuemby/taskbook/pkg/log"
	"github.com/cuemby/taskbook/pkg/store"
	"github.com/cuemby/taskbook/pkg/wire"
)

// StatusFor maps err to the HTTP status code a handler should return.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvariant):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrSerialization):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNetwork), errors.Is(err, store.ErrIO):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Write sends err as the standard JSON error body at the status
// StatusFor maps it to. A 5xx status is logged with the full error and
// answered with only the generic message "internal error".
func Write(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		log.Logger.Error().Err(err).Int("status", status).Msg("request failed")
		msg = "internal error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(wire.ErrorResponse{Error: msg})
}
