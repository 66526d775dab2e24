package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key is absent or its entry has expired.
var ErrNotFound = errors.New("key not found")

// Store is the key-value abstraction backing auth secrets and rate-limit
// counters. Entries carry a TTL and are evicted by the backend; callers must
// still tolerate lazy eviction and re-check expiry where it matters.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// Increment atomically increments the counter at key and returns the new
	// value. ttl is applied only when the counter is created, so the first
	// increment starts the window and later ones do not extend it.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
