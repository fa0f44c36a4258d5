package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when several sites or environments share one Redis
// instance and need separate cache namespaces.
//
// Example usage:
//
//	// Staging keys, isolated from production
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// DocKey generates a prefixed key for a cached document.
func (k *ScopedKeyer) DocKey(docID string) string {
	return k.prefix + k.inner.DocKey(docID)
}

// CSSKey generates a prefixed key for the rendered style sheet.
func (k *ScopedKeyer) CSSKey() string {
	return k.prefix + k.inner.CSSKey()
}

// SocialKey generates a prefixed key for the ordered social-link list.
func (k *ScopedKeyer) SocialKey() string {
	return k.prefix + k.inner.SocialKey()
}
