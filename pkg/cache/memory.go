package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store with TTL expiry and LRU eviction.
// It is used when no redis instance is configured and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[Key]*memoryEntry
	maxSize int
	now     func() time.Time
}

type memoryEntry struct {
	value      []byte
	expiresAt  time.Time
	lastAccess time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source; tests use it to step past expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates a memory store holding at most maxSize entries.
func NewMemoryStore(maxSize int, opts ...MemoryOption) *MemoryStore {
	if maxSize <= 0 {
		maxSize = 1000 // Default size
	}
	s := &MemoryStore{
		entries: make(map[Key]*memoryEntry),
		maxSize: maxSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a copy of the stored value unless it is absent or expired.
func (s *MemoryStore) Get(_ context.Context, key Key) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[key]
	if !exists {
		return nil, false, nil
	}

	now := s.now()
	if !now.Before(entry.expiresAt) {
		delete(s.entries, key)
		return nil, false, nil
	}

	entry.lastAccess = now
	return append([]byte(nil), entry.value...), true, nil
}

// Set stores value until ttl elapses, evicting the least recently used entry when full.
func (s *MemoryStore) Set(_ context.Context, key Key, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxSize {
		s.evictLRU()
	}

	now := s.now()
	s.entries[key] = &memoryEntry{
		value:      append([]byte(nil), value...),
		expiresAt:  now.Add(ttl),
		lastAccess: now,
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *MemoryStore) Delete(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Len returns the number of entries, expired ones included until swept.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// evictLRU removes least recently used entry. Caller holds the lock.
func (s *MemoryStore) evictLRU() {
	var oldestKey Key
	var oldestTime time.Time
	found := false

	for key, entry := range s.entries {
		if !found || entry.lastAccess.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.lastAccess
			found = true
		}
	}

	if found {
		delete(s.entries, oldestKey)
	}
}

// Cleanup removes expired entries
func (s *MemoryStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// StartCleanup sweeps expired entries every interval until ctx is done.
func (s *MemoryStore) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

var _ Store = (*MemoryStore)(nil)
