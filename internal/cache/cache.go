package cache

import (
	"context"
	"time"
)

// Cache maps contextualized links back to their original URLs so redirects
// skip the database on hot paths.
type Cache interface {
	// GetLink returns the original link for a contextualized link.
	// ok is false on a cache miss.
	GetLink(ctx context.Context, contextualizedLink string) (link string, ok bool, err error)

	// SetLink stores the mapping with TTL
	SetLink(ctx context.Context, contextualizedLink, link string, ttl time.Duration) error

	// Close closes the cache connection
	Close() error
}
