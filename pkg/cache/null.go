package cache

import (
	"context"
	"time"
)

// NullCache discards every normalized image, so each file is decoded and
// resized from source. It backs --no-cache runs and keeps the pipeline
// free of nil checks.
type NullCache struct{}

// NewNullCache creates a cache that never stores anything.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always misses.
func (*NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set drops the payload.
func (*NullCache) Set(ctx context.Context, key string, image []byte, ttl time.Duration) error {
	return nil
}

// Delete has nothing to evict.
func (*NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close is a no-op.
func (*NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
