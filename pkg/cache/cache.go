// Package cache provides the normalized-image cache used by the pipeline.
//
// Normalizing a source image (decode, resize, canvas padding) is the most
// expensive per-file step that does not depend on the cutoff, so repeated
// runs over the same folder reuse prior results. Three backends exist:
//
//   - FileCache: entries on disk under the XDG cache directory (default)
//   - RedisCache: shared cache for runs spread across machines
//   - NullCache: caching disabled (--no-cache)
//
// Keys are derived from the source path, its modification time, and the
// normalization options, so a touched file or a changed target size never
// serves a stale entry.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// TTLs per entry kind.
const (
	// TTLNormalized is how long a normalized image stays cached.
	TTLNormalized = 7 * 24 * time.Hour
)

// Cache is the interface implemented by all backends.
type Cache interface {
	// Get retrieves a value. The second result reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NormalizeKey generates the cache key for a normalized image.
// The key covers everything that affects the normalization result.
func NormalizeKey(path string, modTime time.Time, size int, canvas string) string {
	return hashKey("normalize", path, modTime.UnixNano(), size, canvas)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Full SHA-256 (64 hex chars) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
