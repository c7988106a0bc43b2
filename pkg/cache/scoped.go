package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments (or a
// versioned output format) can share one backend without collisions.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "featuretable:v1:")
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

// TableKey generates a prefixed key for rendered table caching.
func (k *ScopedKeyer) TableKey(inputHash string, opts TableKeyOpts) string {
	return k.prefix + k.inner.TableKey(inputHash, opts)
}
