package cache

// ScopedKeyer wraps a [Keyer] with a prefix so several projects can
// share one cache backend without key collisions.
//
// Example usage:
//
//	// Per-project namespace on a shared Redis
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "proj:fps_mvp:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every
// generated key. A nil inner keyer defaults to [NewDefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DocumentKey generates a prefixed document key.
func (k *ScopedKeyer) DocumentKey(assetPath, contentHash string) string {
	return k.prefix + k.inner.DocumentKey(assetPath, contentHash)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(assetPath, contentHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(assetPath, contentHash, opts)
}
