package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/store"
	"github.com/google/uuid"
)

// baseMemoryRepo keeps records keyed by id plus an optional unique lookup
// key. Soft-deleted records release their key.
type baseMemoryRepo[T any] struct {
	mu      sync.RWMutex
	records map[uuid.UUID]T
	keys    map[string]uuid.UUID
	meta    func(*T) *domain.RecordMeta
	keyOf   func(*T) string
	kind    string
	now     func() time.Time
}

func newBaseMemoryRepo[T any](kind string, meta func(*T) *domain.RecordMeta, keyOf func(*T) string) baseMemoryRepo[T] {
	return baseMemoryRepo[T]{
		records: make(map[uuid.UUID]T),
		keys:    make(map[string]uuid.UUID),
		meta:    meta,
		keyOf:   keyOf,
		kind:    kind,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *baseMemoryRepo[T]) key(record *T) string {
	if r.keyOf == nil {
		return ""
	}
	return r.keyOf(record)
}

func (r *baseMemoryRepo[T]) create(ctx context.Context, record *T) error {
	if record == nil {
		return store.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.key(record)
	if key != "" {
		if _, taken := r.keys[key]; taken {
			return fmt.Errorf("%s %s: %w", r.kind, key, store.ErrConflict)
		}
	}

	m := r.meta(record)
	m.EnsureID()
	now := r.now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	r.records[m.ID] = *record
	if key != "" {
		r.keys[key] = m.ID
	}
	return nil
}

func (r *baseMemoryRepo[T]) update(ctx context.Context, record *T) error {
	if record == nil {
		return store.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.meta(record)
	current, ok := r.records[m.ID]
	if m.ID == uuid.Nil || !ok {
		return store.ErrNotFound
	}
	oldKey, newKey := r.key(&current), r.key(record)
	if newKey != oldKey && newKey != "" {
		if _, taken := r.keys[newKey]; taken {
			return fmt.Errorf("%s %s: %w", r.kind, newKey, store.ErrConflict)
		}
	}
	m.UpdatedAt = r.now()
	r.records[m.ID] = *record
	if oldKey != newKey {
		delete(r.keys, oldKey)
		if newKey != "" {
			r.keys[newKey] = m.ID
		}
	}
	return nil
}

func (r *baseMemoryRepo[T]) getByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getLocked(id, includeDeleted)
}

func (r *baseMemoryRepo[T]) getLocked(id uuid.UUID, includeDeleted bool) (*T, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if !includeDeleted && !r.meta(&record).DeletedAt.IsZero() {
		return nil, store.ErrNotFound
	}
	out := record
	return &out, nil
}

// getByKey resolves a live record through the unique key index.
func (r *baseMemoryRepo[T]) getByKey(ctx context.Context, key string) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.keys[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return r.getLocked(id, false)
}

// filter returns live records accepted by match, oldest first.
func (r *baseMemoryRepo[T]) filter(match func(*T) bool) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []T
	for _, record := range r.records {
		if !r.meta(&record).DeletedAt.IsZero() {
			continue
		}
		if match != nil && !match(&record) {
			continue
		}
		out = append(out, record)
	}
	r.sort(out)
	return out
}

// sort orders by creation time, breaking ties by id so listings are stable.
func (r *baseMemoryRepo[T]) sort(items []T) {
	sort.Slice(items, func(i, j int) bool {
		a, b := r.meta(&items[i]), r.meta(&items[j])
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}

func (r *baseMemoryRepo[T]) list(ctx context.Context, opts store.ListOptions) (store.ListResult[T], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []T
	for _, record := range r.records {
		m := r.meta(&record)
		switch {
		case !opts.IncludeSoftDeleted && !m.DeletedAt.IsZero():
			continue
		case !opts.Since.IsZero() && m.CreatedAt.Before(opts.Since):
			continue
		case !opts.Until.IsZero() && m.CreatedAt.After(opts.Until):
			continue
		}
		matched = append(matched, record)
	}
	r.sort(matched)

	total := len(matched)
	start := min(max(opts.Offset, 0), total)
	end := total
	if opts.Limit > 0 {
		end = min(start+opts.Limit, total)
	}
	return store.ListResult[T]{Items: matched[start:end], Total: total}, nil
}

func (r *baseMemoryRepo[T]) softDelete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return store.ErrNotFound
	}
	m := r.meta(&record)
	if m.DeletedAt.IsZero() {
		m.DeletedAt = r.now()
	}
	r.records[id] = record
	if key := r.key(&record); key != "" && r.keys[key] == id {
		delete(r.keys, key)
	}
	return nil
}
