package cache

import "fmt"

// PointsKeyOpts identifies a generated point set.
type PointsKeyOpts struct {
	Count  int     `json:"count"`
	StartX float64 `json:"start_x"`
	StartY float64 `json:"start_y"`
	Seed   uint64  `json:"seed"`
}

// ArtifactKeyOpts identifies a rendered output.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Size   int    `json:"size"`
	Title  string `json:"title,omitempty"`
}

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	// PointsKey keys a point set by fractal kind, recipe hash and options.
	PointsKey(kind, recipeHash string, opts PointsKeyOpts) string
	// HistogramKey keys a histogram by the hash of its input points and m.
	HistogramKey(pointsHash string, m int) string
	// ArtifactKey keys a rendered artifact by the hash of its input.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "stage:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PointsKey implements Keyer.
func (DefaultKeyer) PointsKey(kind, recipeHash string, opts PointsKeyOpts) string {
	return hashKey("points", kind, recipeHash, opts)
}

// HistogramKey implements Keyer.
func (DefaultKeyer) HistogramKey(pointsHash string, m int) string {
	return hashKey("histogram", pointsHash, fmt.Sprint(m))
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}
