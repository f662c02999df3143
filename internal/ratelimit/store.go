package ratelimit

import (
	"context"
	"sync"
	"time"
)

// WindowStore maintains per-key counters with fixed-window expiry.
type WindowStore interface {
	// Incr bumps the counter for key, starting a fresh window when none
	// is active, and returns the new count together with the time left
	// until the window resets.
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}

// memoryStore is the default in-process WindowStore. Windows are reset
// lazily on access; an occasional stale entry for an idle client costs a
// few bytes until its next request.
type memoryStore struct {
	mu      sync.Mutex
	windows map[string]*windowEntry

	// now is injectable for deterministic window-boundary tests.
	now func() time.Time
}

type windowEntry struct {
	count   int64
	resetAt time.Time
}

// NewMemoryStore returns an empty in-process window store.
func NewMemoryStore() WindowStore {
	return &memoryStore{
		windows: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

func (s *memoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.windows[key]
	if !ok || !now.Before(entry.resetAt) {
		entry = &windowEntry{resetAt: now.Add(window)}
		s.windows[key] = entry
	}
	entry.count++
	return entry.count, entry.resetAt.Sub(now), nil
}
