package cache

import (
	"context"
	"sync"
	"time"
)

// Cache exposes the minimal API needed for lookup caching.
type Cache interface {
	Get(ctx context.Context, key string) (any, bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Nop cache returns misses and ignores writes.
type Nop struct{}

var _ Cache = (*Nop)(nil)

func (n *Nop) Get(ctx context.Context, key string) (any, bool, error) { return nil, false, nil }
func (n *Nop) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}
func (n *Nop) Delete(ctx context.Context, key string) error { return nil }

// sweepInterval bounds how often Set scans for expired entries.
const sweepInterval = time.Minute

// Memory is a process-local cache. A zero ttl never expires. The zero value
// is ready to use; NewMemory is a convenience.
type Memory struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	now       func() time.Time
	nextSweep time.Time
}

type memoryEntry struct {
	value     any
	expiresAt time.Time
}

func (e memoryEntry) expired(at time.Time) bool {
	return !e.expiresAt.IsZero() && !at.Before(e.expiresAt)
}

var _ Cache = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

func (m *Memory) Get(ctx context.Context, key string) (any, bool, error) {
	at := m.clock()
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if entry.expired(at) {
		m.mu.Lock()
		if current, ok := m.entries[key]; ok && current.expired(at) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set stores value and, at most once per sweepInterval, evicts every
// expired entry.
func (m *Memory) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	at := m.clock()
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = at.Add(ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[string]memoryEntry)
	}
	if !at.Before(m.nextSweep) {
		for k, e := range m.entries {
			if e.expired(at) {
				delete(m.entries, k)
			}
		}
		m.nextSweep = at.Add(sweepInterval)
	}
	m.entries[key] = entry
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired ones included until
// they are swept.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
