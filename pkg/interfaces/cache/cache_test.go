package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryExpiresEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	if err := m.Set(ctx, "entity:issue_status:2", "In Progress", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := m.Set(ctx, "forever", 1, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, _ := m.Get(ctx, "entity:issue_status:2"); !ok || v != "In Progress" {
		t.Fatalf("expected hit, got %v %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := m.Get(ctx, "entity:issue_status:2"); ok {
		t.Fatalf("expected expired entry")
	}
	if _, ok, _ := m.Get(ctx, "forever"); !ok {
		t.Fatalf("expected non-expiring entry")
	}

	_ = m.Delete(ctx, "forever")
	if _, ok, _ := m.Get(ctx, "forever"); ok {
		t.Fatalf("expected deleted entry")
	}
}

func TestMemorySweepsUnreadExpiredEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := &Memory{now: func() time.Time { return now }}

	for _, key := range []string{"custom_field:1", "custom_field:2", "custom_field:3"} {
		if err := m.Set(ctx, key, key, 30*time.Second); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	if err := m.Set(ctx, "pinned", true, 0); err != nil {
		t.Fatalf("set pinned: %v", err)
	}
	if m.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", m.Len())
	}

	now = now.Add(2 * sweepInterval)
	if err := m.Set(ctx, "fresh", 1, time.Minute); err != nil {
		t.Fatalf("set fresh: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("expected expired entries to be swept, got %d left", m.Len())
	}
	if _, ok, _ := m.Get(ctx, "pinned"); !ok {
		t.Fatalf("expected non-expiring entry to survive the sweep")
	}
}

func TestMemoryZeroValue(t *testing.T) {
	var m Memory
	ctx := context.Background()
	if _, ok, err := m.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected clean miss, got %v %v", ok, err)
	}
	if err := m.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, _ := m.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("expected hit, got %v %v", v, ok)
	}
	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestNopAlwaysMisses(t *testing.T) {
	n := &Nop{}
	_ = n.Set(context.Background(), "k", 1, time.Minute)
	if _, ok, _ := n.Get(context.Background(), "k"); ok {
		t.Fatalf("nop cache must miss")
	}
}
