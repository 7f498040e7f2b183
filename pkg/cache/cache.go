// Package cache provides pluggable storage for export artifacts.
//
// Export documents and rendered artifacts are keyed by asset path plus
// content hash, so a cache hit means the asset has not changed since the
// artifact was produced. Four backends implement [Cache]:
//   - [FileCache]: sharded files on disk, for CLI usage
//   - [NullCache]: caching disabled
//   - [RedisCache]: shared cache for multi-instance deployments
//   - [MongoCache]: document archive with server-side expiry
//
// Keys are built through a [Keyer] so callers never concatenate key
// strings by hand; [ScopedKeyer] prefixes keys for namespace isolation.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is the storage interface shared by all backends.
//
// Get reports misses through the bool, not the error: an error means the
// backend itself failed. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default lifetimes for cached entries.
const (
	// DefaultTTL bounds artifact entries.
	DefaultTTL = 24 * time.Hour

	// DocumentTTL bounds encoded documents. Documents are keyed by
	// content hash, so a stale hit is impossible and the TTL exists only
	// to reclaim space.
	DocumentTTL = 7 * 24 * time.Hour
)

// ArtifactKeyOpts identifies one rendered artifact of an asset revision.
// Every field that changes the rendered bytes must be part of the key,
// otherwise a cached artifact from different render settings is returned.
type ArtifactKeyOpts struct {
	Format      string
	TOC         bool
	Chains      bool
	Detailed    bool
	Rankdir     string
	GeneratedBy string
}

// Keyer generates cache keys for the two artifact classes.
type Keyer interface {
	// DocumentKey keys the encoded JSON document of one asset revision.
	DocumentKey(assetPath, contentHash string) string

	// ArtifactKey keys one rendered artifact (markdown, dot, svg, png)
	// of one asset revision.
	ArtifactKey(assetPath, contentHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme: a class prefix plus a SHA-256
// over the identifying parts.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DocumentKey generates a key for an encoded document.
func (k *DefaultKeyer) DocumentKey(assetPath, contentHash string) string {
	return hashKey("doc", assetPath, contentHash)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(assetPath, contentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", assetPath, contentHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash computes the SHA-256 hash of data as a 64-character hex string.
// Pipelines use it as the content hash identifying one asset revision.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
