package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/taskbook/internal/server/auth"
	"github.com/cuemby/taskbook/pkg/store"
	"github.com/cuemby/taskbook/pkg/wire"
)

func TestBucketForMapsArchiveFlag(t *testing.T) {
	assert.Equal(t, store.Archive, bucketFor(true))
	assert.Equal(t, store.Active, bucketFor(false))
}

func TestBucketLabelMatchesBucket(t *testing.T) {
	assert.Equal(t, "archive", bucketLabel(store.Archive))
	assert.Equal(t, "active", bucketLabel(store.Active))
}

type staticLookup struct{ id uuid.UUID }

func (s staticLookup) UserIDForSession(ctx context.Context, tokenHash []byte) (uuid.UUID, error) {
	return s.id, nil
}

// TestHandleItemsPutRejectsOversizedBucket exercises the >10,000-item
// guard directly: it fails before the handler ever touches s.DB, so this
// runs with a nil DB and still proves the bucket is rejected intact.
func TestHandleItemsPutRejectsOversizedBucket(t *testing.T) {
	s := &Server{}

	items := make(map[string]wire.EncryptedItem, store.MaxItemsPerBucket+1)
	for i := 0; i <= store.MaxItemsPerBucket; i++ {
		items[fmt.Sprintf("item-%d", i)] = wire.EncryptedItem{Data: "x", Nonce: "y"}
	}
	body, err := json.Marshal(wire.ItemsPayload{Items: items})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/items", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	handler := auth.Middleware(staticLookup{id: uuid.New()})(s.handleItemsPut(false))
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp wire.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Error, "item limit")
}
