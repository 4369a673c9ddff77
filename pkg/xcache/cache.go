// Package xcache is the key/TTL store used for read-through caching. Values are stored as JSON
// so every implementation behaves like the redis one.
package xcache

import (
	"context"
	"time"
)

type Cache interface {
	// Get decodes the value at key into v. It reports false if the key is absent or expired.
	Get(ctx context.Context, key string, v any) (bool, error)

	// Put stores value at key. A zero ttl never expires.
	Put(ctx context.Context, key string, value any, ttl time.Duration) error

	Forget(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)

	// Increment atomically adds one to the integer at key, starting from zero, and returns the
	// new value.
	Increment(ctx context.Context, key string) (int64, error)
}
