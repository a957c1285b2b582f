package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/cuemby/taskbook/pkg/store"
)

type contextKey int

const userIDContextKey contextKey = iota

// SessionLookup resolves a bearer token hash to its owning user id.
type SessionLookup interface {
	UserIDForSession(ctx context.Context, tokenHash []byte) (uuid.UUID, error)
}

// Middleware extracts the bearer token, resolves it against lookup, and
// stores the resulting user id in the request context. Missing or
// invalid tokens reject with 401 before the handler runs.
func Middleware(lookup SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
				return
			}
			userID, err := lookup.UserIDForSession(r.Context(), HashToken(token))
			if err != nil {
				if errors.Is(err, store.ErrAuth) {
					http.Error(w, `{"error":"session rejected"}`, http.StatusUnauthorized)
					return
				}
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}
			ctx := context.WithValue(r.Context(), userIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return "", false
	}
	token := strings.TrimPrefix(h, prefix)
	if token == "" {
		return "", false
	}
	return token, true
}

// UserID extracts the authenticated user id stashed by Middleware.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDContextKey).(uuid.UUID)
	return id, ok
}
