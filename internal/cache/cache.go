// Package cache provides a cache-aside store with a per-entry TTL. Reads are
// opportunistic: a write never invalidates entries on its own, so a cached
// read may be stale until its TTL expires. Callers that need fresh data pass
// a TTL of zero.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// Fetch runs the cache-aside pattern for a JSON-encodable value: return the
// cached copy if present, otherwise call fill and cache its result for ttl.
// A ttl <= 0 bypasses the store entirely.
func Fetch[T any](ctx context.Context, store Store, key string, ttl time.Duration, fill func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if ttl <= 0 {
		return fill(ctx)
	}

	if raw, ok := store.Get(ctx, key); ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		// Undecodable entry, treat as a miss and overwrite below.
	}

	value, err := fill(ctx)
	if err != nil {
		return zero, err
	}

	if raw, err := json.Marshal(value); err == nil {
		store.Set(ctx, key, raw, ttl)
	}

	return value, nil
}
