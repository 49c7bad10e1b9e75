// Package session manages per-session conversational state: the dialog
// contexts carried between turns and the identity derived from session ids.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/lnmiit-dev/campusbot-go/internal/dialog"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
)

// Store is the session context store injected into the query pipeline.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the contexts saved for a session, or nil if none.
	Get(sessionID string) []dialog.Context

	// Put replaces a session's contexts wholesale. An empty list still
	// refreshes the session's idle timer.
	Put(sessionID string, contexts []dialog.Context)

	// Delete removes a session's state.
	Delete(sessionID string)

	// Len returns the number of live sessions.
	Len() int
}

// entry holds one session's state and its last-touched time.
type entry struct {
	contexts []dialog.Context
	touched  time.Time
}

// MemoryStore is an in-memory Store with TTL-based eviction. Sessions idle
// longer than the TTL are swept out by a background loop, so abandoned
// conversations do not accumulate for the process lifetime.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	logger  *logger.Logger

	// onEvict, if set, is called with the number of sessions removed
	// by each sweep. Used to feed metrics.
	onEvict func(n int)
}

// NewMemoryStore creates an in-memory session store with the given idle TTL.
func NewMemoryStore(ttl time.Duration, log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		logger:  log.WithModule("session"),
	}
}

// SetEvictionCallback registers a callback invoked with the count of
// sessions removed by each sweep.
func (s *MemoryStore) SetEvictionCallback(fn func(n int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvict = fn
}

// Get returns the contexts saved for a session, or nil if none.
func (s *MemoryStore) Get(sessionID string) []dialog.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[sessionID]
	if !ok {
		return nil
	}
	// Copy so callers cannot mutate stored state.
	out := make([]dialog.Context, len(e.contexts))
	copy(out, e.contexts)
	return out
}

// Put replaces a session's contexts wholesale (no merge) and refreshes
// its idle timer.
func (s *MemoryStore) Put(sessionID string, contexts []dialog.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]dialog.Context, len(contexts))
	copy(stored, contexts)
	s.entries[sessionID] = &entry{contexts: stored, touched: time.Now()}
}

// Delete removes a session's state.
func (s *MemoryStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep removes all sessions idle longer than the TTL and returns the
// number removed.
func (s *MemoryStore) Sweep() int {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	removed := 0
	for id, e := range s.entries {
		if e.touched.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	onEvict := s.onEvict
	s.mu.Unlock()

	if removed > 0 {
		s.logger.WithField("evicted", removed).Debug("Swept idle sessions")
		if onEvict != nil {
			onEvict(removed)
		}
	}
	return removed
}

// RunSweeper runs the TTL sweep loop until the context is canceled.
// The sweep interval is half the TTL, floored at one minute.
func (s *MemoryStore) RunSweeper(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
