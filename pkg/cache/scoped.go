package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Sites sharing one Redis instance use separate prefixes so that
// invalidating one site's tags leaves the others alone.
//
// Example usage:
//
//	siteKeyer := NewScopedKeyer(NewDefaultKeyer(), "site:example.org:")
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

// BundleKey generates a prefixed bundle key.
func (k *ScopedKeyer) BundleKey(theme string, opts BundleKeyOpts) string {
	return k.prefix + k.inner.BundleKey(theme, opts)
}

// TagKey generates a prefixed tag key.
func (k *ScopedKeyer) TagKey(tag string) string {
	return k.prefix + k.inner.TagKey(tag)
}
