// Package taskservice is the thin coordinator above a Store: every
// operation reads a bucket, mutates the in-memory map, then writes the
// result back, which is what makes id validation atomic with respect to
// the mutation.
package taskservice

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/cuemby/taskbook/pkg/item"
	"github.com/cuemby/taskbook/pkg/store"
)

// Service coordinates task/note operations against a single Store.
type Service struct {
	store store.Store
	now   func() time.Time
}

// New builds a Service against the given backend. now defaults to
// time.Now; tests may override it via WithClock.
func New(s store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

// WithClock overrides the Service's clock (used by tests for deterministic
// createdDate/createdAtMillis).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func nextID(m map[string]item.Item) uint64 {
	var max uint64
	for _, it := range m {
		if it.ID > max {
			max = it.ID
		}
	}
	return max + 1
}

// resolveIDs validates and deduplicates caller-supplied ids, preserving
// first-occurrence order. A missing id aborts with a *store.NotFoundID
// before the caller has mutated anything.
func resolveIDs(m map[string]item.Item, ids []uint64) ([]string, error) {
	seen := make(map[uint64]bool, len(ids))
	keys := make([]string, 0, len(ids))
	byID := make(map[uint64]string, len(m))
	for k, it := range m {
		byID[it.ID] = k
	}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		key, ok := byID[id]
		if !ok {
			return nil, &store.NotFoundID{ID: id}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// CreateTask adds a new task to the active bucket.
func (s *Service) CreateTask(ctx context.Context, description string, boards, tags []string, priority int) (*item.Item, error) {
	if description == "" {
		return nil, fmt.Errorf("%w: description must not be empty", store.ErrInvariant)
	}
	active, err := s.store.ReadActive(ctx)
	if err != nil {
		return nil, err
	}
	id := nextID(active)
	now := s.now()
	createdDate, createdAtMillis := item.NowHeader(id, now)
	it := item.Item{
		ID:              id,
		CreatedDate:     createdDate,
		CreatedAtMillis: createdAtMillis,
		KindFlag:        item.KindTask,
		Description:     description,
		Boards:          item.NormalizeBoards(boards),
		Tags:            tags,
		Priority:        item.ClampPriority(priority),
	}
	active[strconv.FormatUint(id, 10)] = it
	if err := s.store.WriteActive(ctx, active); err != nil {
		return nil, err
	}
	return &it, nil
}

// CreateNote adds a new note to the active bucket.
func (s *Service) CreateNote(ctx context.Context, description, body string, boards, tags []string) (*item.Item, error) {
	if description == "" {
		return nil, fmt.Errorf("%w: description must not be empty", store.ErrInvariant)
	}
	active, err := s.store.ReadActive(ctx)
	if err != nil {
		return nil, err
	}
	id := nextID(active)
	now := s.now()
	createdDate, createdAtMillis := item.NowHeader(id, now)
	it := item.Item{
		ID:              id,
		CreatedDate:     createdDate,
		CreatedAtMillis: createdAtMillis,
		KindFlag:        item.KindNote,
		Description:     description,
		Body:            (&item.Item{Body: body}).NormalizedBody(),
		Boards:          item.NormalizeBoards(boards),
		Tags:            tags,
	}
	active[strconv.FormatUint(id, 10)] = it
	if err := s.store.WriteActive(ctx, active); err != nil {
		return nil, err
	}
	return &it, nil
}

// mutateActive reads the active bucket, applies fn to each resolved key,
// then writes the bucket back.
func (s *Service) mutateActive(ctx context.Context, ids []uint64, fn func(it *item.Item)) error {
	active, err := s.store.ReadActive(ctx)
	if err != nil {
		return err
	}
	keys, err := resolveIDs(active, ids)
	if err != nil {
		return err
	}
	for _, k := range keys {
		it := active[k]
		fn(&it)
		active[k] = it
	}
	return s.store.WriteActive(ctx, active)
}

// Check inverts Complete; setting it true forces InProgress false.
func (s *Service) Check(ctx context.Context, ids []uint64) error {
	return s.mutateActive(ctx, ids, func(it *item.Item) {
		it.Complete = !it.Complete
		if it.Complete {
			it.InProgress = false
		}
	})
}

// Begin inverts InProgress; setting it true forces Complete false.
func (s *Service) Begin(ctx context.Context, ids []uint64) error {
	return s.mutateActive(ctx, ids, func(it *item.Item) {
		it.InProgress = !it.InProgress
		if it.InProgress {
			it.Complete = false
		}
	})
}

// Star inverts Starred.
func (s *Service) Star(ctx context.Context, ids []uint64) error {
	return s.mutateActive(ctx, ids, func(it *item.Item) {
		it.Starred = !it.Starred
	})
}

// Priority sets priority on the given items; out-of-range values are
// rejected rather than clamped.
func (s *Service) Priority(ctx context.Context, ids []uint64, priority int) error {
	if priority < 1 || priority > 3 {
		return fmt.Errorf("%w: priority must be 1, 2, or 3", store.ErrInvariant)
	}
	return s.mutateActive(ctx, ids, func(it *item.Item) {
		it.Priority = priority
	})
}

// EditDescription replaces an item's description; empty is rejected.
func (s *Service) EditDescription(ctx context.Context, id uint64, description string) error {
	if description == "" {
		return fmt.Errorf("%w: description must not be empty", store.ErrInvariant)
	}
	return s.mutateActive(ctx, []uint64{id}, func(it *item.Item) {
		it.Description = description
	})
}

// MoveBoards replaces an item's boards with the normalized caller-provided
// list; an empty result after normalization is rejected.
func (s *Service) MoveBoards(ctx context.Context, ids []uint64, boards []string) error {
	normalized := make([]string, 0, len(boards))
	for _, b := range boards {
		if n := item.NormalizeBoard(b); n != "" {
			normalized = append(normalized, n)
		}
	}
	if len(normalized) == 0 {
		return fmt.Errorf("%w: boards must not be empty", store.ErrInvariant)
	}
	return s.mutateActive(ctx, ids, func(it *item.Item) {
		it.Boards = normalized
	})
}

// Delete removes items from active and inserts them into archive with a
// freshly allocated archive id.
func (s *Service) Delete(ctx context.Context, ids []uint64) error {
	active, err := s.store.ReadActive(ctx)
	if err != nil {
		return err
	}
	keys, err := resolveIDs(active, ids)
	if err != nil {
		return err
	}
	archive, err := s.store.ReadArchive(ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		it := active[k]
		delete(active, k)
		it.ID = nextID(archive)
		archive[strconv.FormatUint(it.ID, 10)] = it
	}
	if err := s.store.WriteArchive(ctx, archive); err != nil {
		return err
	}
	return s.store.WriteActive(ctx, active)
}

// Restore removes items from archive and inserts them into active with a
// freshly allocated active id.
func (s *Service) Restore(ctx context.Context, ids []uint64) error {
	archive, err := s.store.ReadArchive(ctx)
	if err != nil {
		return err
	}
	keys, err := resolveIDs(archive, ids)
	if err != nil {
		return err
	}
	active, err := s.store.ReadActive(ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		it := archive[k]
		delete(archive, k)
		it.ID = nextID(active)
		active[strconv.FormatUint(it.ID, 10)] = it
	}
	if err := s.store.WriteActive(ctx, active); err != nil {
		return err
	}
	return s.store.WriteArchive(ctx, archive)
}

// ClearCompleted deletes every task whose Complete is true, moving them to
// archive, and returns the count.
func (s *Service) ClearCompleted(ctx context.Context) (int, error) {
	active, err := s.store.ReadActive(ctx)
	if err != nil {
		return 0, err
	}
	var ids []uint64
	for _, it := range active {
		if it.IsTask() && it.Complete {
			ids = append(ids, it.ID)
		}
	}
	// Sort for deterministic archive-id assignment order.
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.Delete(ctx, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// RenameBoard replaces every occurrence of old with the normalized new
// across both buckets, returning the number of affected items.
func (s *Service) RenameBoard(ctx context.Context, old, newName string) (int, error) {
	normalizedNew := item.NormalizeBoard(newName)
	if normalizedNew == "" {
		return 0, fmt.Errorf("%w: new board name must not be empty", store.ErrInvariant)
	}
	affected := 0

	active, err := s.store.ReadActive(ctx)
	if err != nil {
		return 0, err
	}
	for k, it := range active {
		if renameBoardIn(&it, old, normalizedNew) {
			active[k] = it
			affected++
		}
	}
	if err := s.store.WriteActive(ctx, active); err != nil {
		return 0, err
	}

	archive, err := s.store.ReadArchive(ctx)
	if err != nil {
		return 0, err
	}
	for k, it := range archive {
		if renameBoardIn(&it, old, normalizedNew) {
			archive[k] = it
			affected++
		}
	}
	if err := s.store.WriteArchive(ctx, archive); err != nil {
		return 0, err
	}

	return affected, nil
}

func renameBoardIn(it *item.Item, old, newName string) bool {
	changed := false
	for i, b := range it.Boards {
		if item.EqualBoard(b, old) {
			it.Boards[i] = newName
			changed = true
		}
	}
	return changed
}
