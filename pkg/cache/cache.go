package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: miss")

// Store is a key-value cache with TTLs and cross-instance invalidation.
// Implementations own their connection lifecycle; callers must Close.
//
// PublishInvalidation broadcasts a glob-style key mask; every subscribed
// instance (including the publisher) deletes its matching entries. A missed
// broadcast yields at worst a stale read bounded by the entry's TTL.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	DelPattern(ctx context.Context, mask string) error
	PublishInvalidation(ctx context.Context, mask string) error
	Close() error
}

// Backend names accepted by Open
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Open builds the configured cache backend.
func Open(backend, redisURL, redisPassword string) (Store, error) {
	switch backend {
	case BackendRedis:
		return OpenRedis(redisURL, redisPassword)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", backend)
	}
}
