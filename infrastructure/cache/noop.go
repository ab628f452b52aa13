// Package cache provides cache backends shared by the service layer.
package cache

import (
	"context"
	"time"
)

// Noop satisfies the cache port without storing anything. Every read is a
// miss, so the read path always goes to the store. Used when caching is
// disabled and for the in-memory store variant, which has no cache layer.
type Noop struct{}

// NewNoop creates a disabled cache
func NewNoop() *Noop {
	return &Noop{}
}

// Get always misses
func (*Noop) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the value
func (*Noop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

// Delete is a no-op
func (*Noop) Delete(ctx context.Context, key string) error {
	return nil
}

// Ping always succeeds
func (*Noop) Ping(ctx context.Context) error {
	return nil
}
