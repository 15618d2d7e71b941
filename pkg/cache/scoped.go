package cache

// ScopedKeyer wraps a Keyer with a prefix, giving each user of a shared
// backend its own namespace.
//
// Example usage:
//
//	// Keys of the staging API server
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// ConflictsKey generates a prefixed conflicts key.
func (k *ScopedKeyer) ConflictsKey(graphHash string, opts ConflictsKeyOpts) string {
	return k.prefix + k.inner.ConflictsKey(graphHash, opts)
}
