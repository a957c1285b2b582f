package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/taskbook/pkg/store"
)

type fakeLookup struct {
	userID uuid.UUID
	err    error
}

func (f fakeLookup) UserIDForSession(ctx context.Context, tokenHash []byte) (uuid.UUID, error) {
	return f.userID, f.err
}

func TestMiddlewareRejectsMissingBearerToken(t *testing.T) {
	mw := Middleware(fakeLookup{})
	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	req := httptest.NewRequest("GET", "/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestMiddlewareRejectsSessionAuthError(t *testing.T) {
	mw := Middleware(fakeLookup{err: store.ErrAuth})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareStoresUserIDInContext(t *testing.T) {
	want := uuid.New()
	mw := Middleware(fakeLookup{userID: want})

	var got uuid.UUID
	var ok bool
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}
