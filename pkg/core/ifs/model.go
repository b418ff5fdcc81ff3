package ifs

import (
	"math"

	"github.com/matzehuels/fct/pkg/errors"
)

// Entry pairs an affine map with the cumulative upper bound of its
// selection interval in [0, 1].
type Entry struct {
	Map       AffineMap
	Threshold float64
}

// Model is an iterated function system recipe: an ordered list of maps
// whose thresholds partition [0, 1) without gaps or overlaps.
//
// Models are immutable once built; share them freely.
type Model struct {
	// Kind is the registry key, e.g. "tree".
	Kind string
	// Name is the display name, also used for default output file names.
	Name    string
	entries []Entry
}

// NewModel validates entries and returns a model.
// Thresholds must be strictly increasing, lie in (0, 1] and end at exactly 1.
func NewModel(kind, name string, entries ...Entry) (*Model, error) {
	if err := errors.ValidateKind(kind); err != nil {
		return nil, err
	}
	m := &Model{Kind: kind, Name: name, entries: append([]Entry(nil), entries...)}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func mustModel(kind, name string, entries ...Entry) *Model {
	m, err := NewModel(kind, name, entries...)
	if err != nil {
		panic(err)
	}
	return m
}

// Validate checks the threshold partition.
func (m *Model) Validate() error {
	if len(m.entries) == 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "model %q has no maps", m.Kind)
	}
	prev := 0.0
	for i, e := range m.entries {
		t := e.Threshold
		if math.IsNaN(t) || t <= 0 || t > 1 {
			return errors.New(errors.ErrCodeInvalidArgument,
				"model %q: threshold %d is %g, must lie in (0, 1]", m.Kind, i+1, t)
		}
		if i > 0 && t <= prev {
			return errors.New(errors.ErrCodeInvalidArgument,
				"model %q: thresholds must be strictly increasing (%g after %g)", m.Kind, t, prev)
		}
		prev = t
	}
	if prev != 1 {
		return errors.New(errors.ErrCodeInvalidArgument,
			"model %q: last threshold is %g, must be 1 to cover the sampling range", m.Kind, prev)
	}
	return nil
}

// Len returns the number of maps.
func (m *Model) Len() int { return len(m.entries) }

// Entries returns a copy of the recipe.
func (m *Model) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

// Map returns the map at 0-based index i.
func (m *Model) Map(i int) AffineMap { return m.entries[i].Map }

// SelectMap returns the 0-based index of the map whose interval contains v.
// The first map with Threshold >= v wins; values above every threshold
// select the last map.
func (m *Model) SelectMap(v float64) int {
	last := len(m.entries) - 1
	for i := 0; i < last; i++ {
		if v <= m.entries[i].Threshold {
			return i
		}
	}
	return last
}

// Probabilities returns the width of each map's selection interval.
func (m *Model) Probabilities() []float64 {
	out := make([]float64, len(m.entries))
	prev := 0.0
	for i, e := range m.entries {
		out[i] = e.Threshold - prev
		prev = e.Threshold
	}
	return out
}
