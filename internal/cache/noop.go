package cache

import (
	"context"
	"time"
)

// NoOpCache is used when no cache backend is configured: every lookup misses
// and writes are discarded.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) GetSummary(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (c *NoOpCache) SetSummary(ctx context.Context, key, summary string, ttl time.Duration) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}
