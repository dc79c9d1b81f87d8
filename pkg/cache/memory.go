package cache

import (
	"context"
	"path"
	"sync"
	"time"
)

// MemoryStore is a single-process cache backend with TTL semantics matching
// the redis backend. Invalidation masks loop back locally only, so it suits
// tests and single-instance deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemory creates an empty in-process store.
func NewMemory() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

// Get retrieves a value by key
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || entry.expired(time.Now()) {
		return "", ErrCacheMiss
	}
	return entry.value, nil
}

// Set stores a key-value pair with expiration
func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: value, expiresAt: deadline(ttl)}
	return nil
}

// SetNX sets a key only if it does not exist
func (s *MemoryStore) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[key]; ok && !entry.expired(time.Now()) {
		return false, nil
	}
	s.entries[key] = memoryEntry{value: value, expiresAt: deadline(ttl)}
	return true, nil
}

// Del removes keys
func (s *MemoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

// DelPattern removes every key matching a glob-style mask.
func (s *MemoryStore) DelPattern(_ context.Context, mask string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		if ok, _ := path.Match(mask, key); ok {
			delete(s.entries, key)
		}
	}
	return nil
}

// PublishInvalidation applies the mask locally; there are no peers.
func (s *MemoryStore) PublishInvalidation(ctx context.Context, mask string) error {
	return s.DelPattern(ctx, mask)
}

// Close releases nothing; it exists to satisfy the Store lifecycle.
func (s *MemoryStore) Close() error {
	return nil
}

func deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}
