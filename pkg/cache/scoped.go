package cache

// ScopedKeyer prefixes every key of an inner Keyer. The server uses it to
// give each configured repository its own namespace, so clearing one
// repository's entries never touches another's.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "repo:linux:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// FeedKey implements Keyer.
func (k *ScopedKeyer) FeedKey(repo, head string, opts FeedKeyOpts) string {
	return k.prefix + k.inner.FeedKey(repo, head, opts)
}

// LayoutKey implements Keyer.
func (k *ScopedKeyer) LayoutKey(feedHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(feedHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
