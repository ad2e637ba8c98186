package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultMaxEntries is the size above which a hit triggers a sweep.
	DefaultMaxEntries = 10000

	// inlineSweepInterval bounds how often hits may sweep. A map full of
	// live windows would otherwise be rescanned on every new key; the
	// scheduled sweep covers the rest.
	inlineSweepInterval = time.Second
)

// MemoryStore is a process-local window store.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]*WindowEntry
	maxEntries int
	lastSweep  time.Time
}

func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		entries:    make(map[string]*WindowEntry),
		maxEntries: maxEntries,
	}
}

// Hit counts one request for key. The count is never clamped.
func (s *MemoryStore) Hit(_ context.Context, key string, now time.Time, window time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || entry.Stale(now) {
		entry = &WindowEntry{Key: key, ResetAt: now.Add(window)}
		s.entries[key] = entry
		if !ok && len(s.entries) > s.maxEntries && now.Sub(s.lastSweep) >= inlineSweepInterval {
			s.sweepLocked(now)
		}
	}
	entry.Count++

	return entry.Count, entry.ResetAt, nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Sweep removes every expired window and returns how many were dropped.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(now)
}

func (s *MemoryStore) sweepLocked(now time.Time) int {
	s.lastSweep = now
	removed := 0
	for key, entry := range s.entries {
		if entry.Stale(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys, stale ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Get returns a copy of the entry for key.
func (s *MemoryStore) Get(key string) (WindowEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return WindowEntry{}, false
	}
	return *entry, true
}
