package kv

import (
	"context"
	"time"
)

// Store is a shared keyed counter with expiry. Keeping it behind an
// interface lets handlers take the capability as a dependency instead of
// reaching for process-local state, so counts hold across instances.
type Store interface {
	// Incr increments key and returns the new value. The first increment
	// of a key starts its TTL window.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
