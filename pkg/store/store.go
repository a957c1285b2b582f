// Package store defines the item store contract shared by every backend:
// four operations, each atomic with respect to concurrent callers of the
// same backend instance.
package store

import (
	"context"

	"github.com/cuemby/taskbook/pkg/item"
)

// Bucket selects which of an owner's two collections an operation targets.
type Bucket int

const (
	Active Bucket = iota
	Archive
)

// MaxItemsPerBucket caps how many items a single bucket may hold.
const MaxItemsPerBucket = 10000

// MaxEncryptedItemBytes caps the base64-measured size of one sealed item.
const MaxEncryptedItemBytes = 1 << 20

// MaxRequestBodyBytes caps the size of an inbound HTTP request body.
const MaxRequestBodyBytes = 10 << 20

// Store is the uniform key/value contract over a bucket of items. A write
// is always a full replace of its bucket; there are no partial mutations
// at this layer.
type Store interface {
	ReadActive(ctx context.Context) (map[string]item.Item, error)
	ReadArchive(ctx context.Context) (map[string]item.Item, error)
	WriteActive(ctx context.Context, items map[string]item.Item) error
	WriteArchive(ctx context.Context, items map[string]item.Item) error
}
