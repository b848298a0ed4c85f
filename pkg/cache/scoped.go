package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Useful when one cache backend serves several projects or users and their
// entries must not collide.
//
// Example usage:
//
//	// Per-project keys
//	projectKeyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "proj:biology101:")
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

// MapKey generates a prefixed key for built-map caching.
func (k *ScopedKeyer) MapKey(payloadHash string, opts MapKeyOpts) string {
	return k.prefix + k.inner.MapKey(payloadHash, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(mapHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(mapHash, opts)
}

// ExportKey generates a prefixed key for exported-notation caching.
func (k *ScopedKeyer) ExportKey(layoutHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(layoutHash, opts)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
