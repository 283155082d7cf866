// Package cache provides byte-oriented caching for computed gallery layouts
// and rendered artifacts.
//
// Backends:
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: shared cache for multi-instance deployments of the site
//   - [MemoryCache]: in-process map, for a single server and for tests
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that the CLI and the server agree on key
// layout. Backend failures are never fatal to callers: a Get error is treated
// as a miss and a Set error is logged and ignored.
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	key, err := cache.NewDefaultKeyer().LayoutKey(contentHash, cache.LayoutKeyOpts{Width: 1200, Gap: 16})
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    // use data
//	}
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	// LayoutTTL is how long a computed layout stays cached. Layouts are pure
	// functions of content and width, so the TTL only bounds storage.
	LayoutTTL = 7 * 24 * time.Hour

	// ArtifactTTL is how long a rendered artifact stays cached.
	ArtifactTTL = 24 * time.Hour
)

// Cache is a key/value store for opaque bytes with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry reports
	// hit=false with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
