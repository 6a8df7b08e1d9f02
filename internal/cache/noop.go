package cache

import (
	"context"
	"time"
)

// NoOpCache is a cache implementation that does nothing.
// Used as a fallback when Redis is unavailable - all operations succeed
// but no actual caching occurs (always cache miss).
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetLink always reports a miss
func (c *NoOpCache) GetLink(ctx context.Context, contextualizedLink string) (string, bool, error) {
	return "", false, nil
}

// SetLink does nothing and always succeeds
func (c *NoOpCache) SetLink(ctx context.Context, contextualizedLink, link string, ttl time.Duration) error {
	return nil
}

// Close does nothing and always succeeds
func (c *NoOpCache) Close() error {
	return nil
}
