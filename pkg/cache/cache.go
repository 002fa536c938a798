// Package cache provides a small byte cache for rendered artifacts.
//
// Packing runs are deterministic given their options, so a rendered SVG or
// PNG is fully determined by the scene content and the render options. The
// CLI caches artifacts keyed by a hash of both, which makes re-rendering a
// stored scene free.
//
// Two implementations are provided: [FileCache] for CLI usage and
// [NullCache] for tests or when caching is disabled.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts stay valid. Artifacts are
// pure functions of their key, so the TTL exists only to bound disk usage.
const TTLArtifact = 30 * 24 * time.Hour

// Cache is a byte cache with TTL-based expiration.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration; a negative ttl
	// stores the value already expired.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
