package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis or MongoDB backend without colliding:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "fct:staging:")
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

// PointsKey generates a prefixed key for point sets.
func (k *ScopedKeyer) PointsKey(kind, recipeHash string, opts PointsKeyOpts) string {
	return k.prefix + k.inner.PointsKey(kind, recipeHash, opts)
}

// HistogramKey generates a prefixed key for histograms.
func (k *ScopedKeyer) HistogramKey(pointsHash string, m int) string {
	return k.prefix + k.inner.HistogramKey(pointsHash, m)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(inputHash, opts)
}
