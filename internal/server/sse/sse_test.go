package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/taskbook/internal/hub"
	"github.com/cuemby/taskbook/internal/server/auth"
)

type staticLookup struct{ id uuid.UUID }

func (s staticLookup) UserIDForSession(ctx context.Context, tokenHash []byte) (uuid.UUID, error) {
	return s.id, nil
}

func TestHandlerRejectsUnauthenticatedRequest(t *testing.T) {
	h := hub.New()
	req := httptest.NewRequest("GET", "/events", nil)
	rec := httptest.NewRecorder()

	Handler(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerStreamsNotifiedEvent(t *testing.T) {
	h := hub.New()
	userID := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest("GET", "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	wrapped := auth.Middleware(staticLookup{id: userID})(Handler(h))

	done := make(chan struct{})
	go func() {
		wrapped.ServeHTTP(rec, req)
		close(done)
	}()

	// Give the handler a moment to subscribe before notifying.
	require.Eventually(t, func() bool {
		return h.ActiveSubscriptions() > 0
	}, time.Second, 5*time.Millisecond)

	h.Notify(userID.String(), hub.Event{Archived: true})

	// Give the handler goroutine time to drain the event before it's torn
	// down; the response body is only read below, after it has exited, to
	// avoid racing its writes.
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	assert.Contains(t, rec.Body.String(), "event: data_changed")
	assert.Contains(t, rec.Body.String(), "data: archive")
}

func TestWriteEventFormatsActiveAndArchivePayloads(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, writeEvent(rec, hub.Event{Archived: false}))
	assert.Equal(t, "event: data_changed\ndata: items\n\n", rec.Body.String())

	rec2 := httptest.NewRecorder()
	require.NoError(t, writeEvent(rec2, hub.Event{Archived: true}))
	assert.Equal(t, "event: data_changed\ndata: archive\n\n", rec2.Body.String())
}
