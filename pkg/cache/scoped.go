package cache

// ScopedKeyer prefixes every key of an inner Keyer. The server uses one per
// API client so that tenants never share entries.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) BoreholeKey(source, id string) string {
	return k.prefix + k.inner.BoreholeKey(source, id)
}

func (k *ScopedKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(inputHash, opts)
}

func (k *ScopedKeyer) PageKey(inputHash string, page int, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.PageKey(inputHash, page, opts)
}
