// Package cache stores generated bundle manifests and cache tag generations.
//
// # Backends
//
// Three [Cache] implementations are provided:
//
//   - [FileCache]: JSON entries under a directory, for CLI usage
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, used when caching is disabled
//
// # Keys
//
// A [Keyer] derives cache keys. Bundle keys hash the theme name, the palette
// fingerprint, the sorted cache-context values and the current generation of
// the [TagLibraryInfo] tag. [ScopedKeyer] prefixes every key, so several
// tenants can share one backend.
//
// # Tag invalidation
//
// [Tags] keeps one generation counter per tag. Invalidating a tag bumps its
// counter; since the generation is part of every bundle key, all bundles
// computed before the bump stop being found and are regenerated on demand.
//
//	tags := cache.NewTags(c, keyer)
//	gen, err := tags.Generation(ctx, cache.TagLibraryInfo)
//	key := keyer.BundleKey("lagoon", cache.BundleKeyOpts{Palette: fp, Generation: gen})
//	...
//	err = tags.Invalidate(ctx, cache.TagLibraryInfo)
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiration.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop all their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Counter is implemented by caches with an atomic increment.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
}
