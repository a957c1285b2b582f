package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuemby/taskbook/pkg/store"
)

func TestStatusForMapsKnownErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{store.ErrNotFound, http.StatusNotFound},
		{store.ErrAuth, http.StatusUnauthorized},
		{store.ErrRateLimited, http.StatusTooManyRequests},
		{store.ErrConflict, http.StatusConflict},
		{store.ErrInvariant, http.StatusBadRequest},
		{store.ErrSerialization, http.StatusBadRequest},
		{store.ErrNetwork, http.StatusBadGateway},
		{store.ErrIO, http.StatusBadGateway},
		{errors.New("unmapped"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StatusFor(c.err), c.err)
	}
}

func TestStatusForUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("looking up session: %w", store.ErrAuth)
	assert.Equal(t, http.StatusUnauthorized, StatusFor(wrapped))
}

func TestWriteEncodesErrorBody(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, &store.NotFoundID{ID: 7})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "item not found: 7")
}
