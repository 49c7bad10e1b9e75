package session

import (
	"testing"
	"time"

	"github.com/lnmiit-dev/campusbot-go/internal/dialog"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
)

func newTestStore(ttl time.Duration) *MemoryStore {
	return NewMemoryStore(ttl, logger.New("error"))
}

func TestMemoryStorePutGet(t *testing.T) {
	store := newTestStore(time.Minute)

	contexts := []dialog.Context{
		{Name: "s/contexts/awaiting_selection", LifespanCount: 1},
	}
	store.Put("session-1", contexts)

	got := store.Get("session-1")
	if len(got) != 1 {
		t.Fatalf("expected 1 context, got %d", len(got))
	}
	if got[0].Name != "s/contexts/awaiting_selection" {
		t.Errorf("unexpected context name %q", got[0].Name)
	}

	if store.Get("unknown") != nil {
		t.Error("expected nil for unknown session")
	}
}

func TestMemoryStorePutReplacesWholesale(t *testing.T) {
	store := newTestStore(time.Minute)

	store.Put("s", []dialog.Context{
		{Name: "a", LifespanCount: 1},
		{Name: "b", LifespanCount: 2},
	})
	store.Put("s", []dialog.Context{
		{Name: "c", LifespanCount: 1},
	})

	got := store.Get("s")
	if len(got) != 1 || got[0].Name != "c" {
		t.Errorf("expected contexts to be replaced, got %+v", got)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := newTestStore(time.Minute)
	store.Put("s", []dialog.Context{{Name: "a", LifespanCount: 1}})

	got := store.Get("s")
	got[0].Name = "mutated"

	again := store.Get("s")
	if again[0].Name != "a" {
		t.Errorf("stored state was mutated through the returned slice")
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	store := newTestStore(10 * time.Millisecond)

	evicted := 0
	store.SetEvictionCallback(func(n int) { evicted += n })

	store.Put("stale", []dialog.Context{{Name: "a", LifespanCount: 1}})
	time.Sleep(20 * time.Millisecond)
	store.Put("fresh", []dialog.Context{{Name: "b", LifespanCount: 1}})

	removed := store.Sweep()
	if removed != 1 {
		t.Fatalf("expected 1 session swept, got %d", removed)
	}
	if evicted != 1 {
		t.Errorf("expected eviction callback with 1, got %d", evicted)
	}
	if store.Get("stale") != nil {
		t.Error("stale session should be gone")
	}
	if store.Get("fresh") == nil {
		t.Error("fresh session should survive the sweep")
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 live session, got %d", store.Len())
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := newTestStore(time.Minute)
	store.Put("s", []dialog.Context{{Name: "a", LifespanCount: 1}})
	store.Delete("s")

	if store.Len() != 0 {
		t.Errorf("expected empty store after delete, got %d", store.Len())
	}
}
