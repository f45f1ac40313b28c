package cache

// ScopedKeyer wraps a Keyer with a prefix so that callers sharing one
// backend cannot read each other's entries:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "tenant:lab-3:")
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
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(topologyHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(topologyHash, opts)
}

// DOTKey generates a prefixed DOT key.
func (k *ScopedKeyer) DOTKey(topologyHash string, opts DOTKeyOpts) string {
	return k.prefix + k.inner.DOTKey(topologyHash, opts)
}
