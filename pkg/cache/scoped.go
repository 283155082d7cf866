package cache

// ScopedKeyer wraps a Keyer with a prefix so several sites can share one
// Redis database without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "maffei:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(contentHash string, opts LayoutKeyOpts) (string, error) {
	key, err := k.inner.LayoutKey(contentHash, opts)
	if err != nil {
		return "", err
	}
	return k.prefix + key, nil
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) (string, error) {
	key, err := k.inner.ArtifactKey(layoutHash, opts)
	if err != nil {
		return "", err
	}
	return k.prefix + key, nil
}
