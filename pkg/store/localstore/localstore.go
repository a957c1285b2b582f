// Package localstore implements the Store contract against the local
// filesystem: whole-file JSON buckets, atomic temp-write+rename, and an
// advisory per-bucket lock.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/cuemby/taskbook/pkg/item"
	"github.com/cuemby/taskbook/pkg/store"
)

const (
	activeDir   = "storage"
	activeFile  = "storage.json"
	archiveDir  = "archive"
	archiveFile = "archive.json"
	tempDir     = ".temp"
)

// LocalStore is a Store implementation rooted at a configurable directory.
type LocalStore struct {
	root string
}

// New creates a LocalStore rooted at root, ensuring the directory layout
// exists and sweeping any leftover temp files left by a prior crash.
func New(root string) (*LocalStore, error) {
	for _, d := range []string{
		filepath.Join(root, activeDir),
		filepath.Join(root, archiveDir),
		filepath.Join(root, tempDir),
	} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("%w: creating %s: %v", store.ErrIO, d, err)
		}
	}
	ls := &LocalStore{root: root}
	if err := ls.sweepTemp(); err != nil {
		return nil, err
	}
	return ls, nil
}

func (ls *LocalStore) sweepTemp() error {
	dir := filepath.Join(ls.root, tempDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: sweeping temp dir: %v", store.ErrIO, err)
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: sweeping temp dir: %v", store.ErrIO, err)
		}
	}
	return nil
}

func (ls *LocalStore) bucketPath(b store.Bucket) string {
	if b == store.Archive {
		return filepath.Join(ls.root, archiveDir, archiveFile)
	}
	return filepath.Join(ls.root, activeDir, activeFile)
}

func (ls *LocalStore) lockPath(b store.Bucket) string {
	return ls.bucketPath(b) + ".lock"
}

// read acquires the bucket's lock, reads and parses the JSON file (an
// absent file yields an empty map, never an error), then releases the
// lock.
func (ls *LocalStore) read(b store.Bucket) (map[string]item.Item, error) {
	lk := flock.New(ls.lockPath(b))
	if err := lk.Lock(); err != nil {
		return nil, fmt.Errorf("%w: acquiring lock: %v", store.ErrIO, err)
	}
	defer lk.Unlock()

	path := ls.bucketPath(b)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]item.Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", store.ErrIO, path, err)
	}
	items := map[string]item.Item{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", store.ErrSerialization, path, err)
	}
	return items, nil
}

// write acquires the bucket's lock, serializes items to pretty-printed
// JSON, writes to a uniquely named temp file, then atomically renames it
// over the target, before releasing the lock.
func (ls *LocalStore) write(b store.Bucket, items map[string]item.Item) error {
	lk := flock.New(ls.lockPath(b))
	if err := lk.Lock(); err != nil {
		return fmt.Errorf("%w: acquiring lock: %v", store.ErrIO, err)
	}
	defer lk.Unlock()

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding bucket: %v", store.ErrSerialization, err)
	}

	tmp, err := os.CreateTemp(filepath.Join(ls.root, tempDir), "bucket-*.json")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", store.ErrIO, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: writing temp file: %v", store.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: closing temp file: %v", store.ErrIO, err)
	}

	if err := os.Rename(tmpPath, ls.bucketPath(b)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: renaming into place: %v", store.ErrIO, err)
	}
	return nil
}

func (ls *LocalStore) ReadActive(_ context.Context) (map[string]item.Item, error) {
	return ls.read(store.Active)
}

func (ls *LocalStore) ReadArchive(_ context.Context) (map[string]item.Item, error) {
	return ls.read(store.Archive)
}

func (ls *LocalStore) WriteActive(_ context.Context, items map[string]item.Item) error {
	return ls.write(store.Active, items)
}

func (ls *LocalStore) WriteArchive(_ context.Context, items map[string]item.Item) error {
	return ls.write(store.Archive, items)
}

var _ store.Store = (*LocalStore)(nil)
