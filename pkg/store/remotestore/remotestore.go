// Package remotestore implements the Store contract against the sync
// server over HTTPS. It wraps an *http.Client bound to a session token
// and an AEAD envelope key, exposing the same four bucket operations as
// any other Store against the server's /items and /items/archive endpoints.
package remotestore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cuemby/taskbook/pkg/crypto"
	"github.com/cuemby/taskbook/pkg/item"
	"github.com/cuemby/taskbook/pkg/store"
	"github.com/cuemby/taskbook/pkg/wire"
)

// RemoteStore is a Store implementation backed by the sync server's
// /items endpoints.
type RemoteStore struct {
	baseURL  string
	token    string
	envelope *crypto.Envelope
	client   *http.Client
}

// New builds a RemoteStore bound to baseURL (e.g. "https://sync.example.com"),
// a bearer session token, and a 32-byte encryption key.
func New(baseURL, token string, key []byte) (*RemoteStore, error) {
	env, err := crypto.New(key)
	if err != nil {
		return nil, err
	}
	return &RemoteStore{
		baseURL:  baseURL,
		token:    token,
		envelope: env,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (rs *RemoteStore) bucketPath(b store.Bucket) string {
	if b == store.Archive {
		return "/items/archive"
	}
	return "/items"
}

func (rs *RemoteStore) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %v", store.ErrSerialization, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rs.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrNetwork, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rs.token != "" {
		req.Header.Set("Authorization", "Bearer "+rs.token)
	}

	resp, err := rs.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", store.ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: session rejected", store.ErrAuth)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: server error (%d)", store.ErrNetwork, resp.StatusCode)
	case resp.StatusCode >= 400:
		var e wire.ErrorResponse
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			return fmt.Errorf("%w: %s", store.ErrInvariant, e.Error)
		}
		return fmt.Errorf("%w: request rejected (%d)", store.ErrInvariant, resp.StatusCode)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: %v", store.ErrSerialization, err)
		}
	}
	return nil
}

func (rs *RemoteStore) readBucket(ctx context.Context, b store.Bucket) (map[string]item.Item, error) {
	var payload wire.ItemsPayload
	if err := rs.doJSON(ctx, http.MethodGet, rs.bucketPath(b), nil, &payload); err != nil {
		return nil, err
	}
	items := make(map[string]item.Item, len(payload.Items))
	for key, enc := range payload.Items {
		ciphertext, err := base64.StdEncoding.DecodeString(enc.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: bad ciphertext encoding for %s: %v", store.ErrInvariant, key, err)
		}
		nonce, err := base64.StdEncoding.DecodeString(enc.Nonce)
		if err != nil {
			return nil, fmt.Errorf("%w: bad nonce encoding for %s: %v", store.ErrInvariant, key, err)
		}
		it, err := rs.envelope.Open(crypto.Sealed{Ciphertext: ciphertext, Nonce: nonce})
		if err != nil {
			return nil, err
		}
		items[key] = *it
	}
	return items, nil
}

func (rs *RemoteStore) writeBucket(ctx context.Context, b store.Bucket, items map[string]item.Item) error {
	payload := wire.ItemsPayload{Items: make(map[string]wire.EncryptedItem, len(items))}
	for key, it := range items {
		it := it
		sealed, err := rs.envelope.Seal(&it)
		if err != nil {
			return err
		}
		payload.Items[key] = wire.EncryptedItem{
			Data:  base64.StdEncoding.EncodeToString(sealed.Ciphertext),
			Nonce: base64.StdEncoding.EncodeToString(sealed.Nonce),
		}
	}
	return rs.doJSON(ctx, http.MethodPut, rs.bucketPath(b), payload, nil)
}

func (rs *RemoteStore) ReadActive(ctx context.Context) (map[string]item.Item, error) {
	return rs.readBucket(ctx, store.Active)
}

func (rs *RemoteStore) ReadArchive(ctx context.Context) (map[string]item.Item, error) {
	return rs.readBucket(ctx, store.Archive)
}

func (rs *RemoteStore) WriteActive(ctx context.Context, items map[string]item.Item) error {
	return rs.writeBucket(ctx, store.Active, items)
}

func (rs *RemoteStore) WriteArchive(ctx context.Context, items map[string]item.Item) error {
	return rs.writeBucket(ctx, store.Archive, items)
}

var _ store.Store = (*RemoteStore)(nil)
