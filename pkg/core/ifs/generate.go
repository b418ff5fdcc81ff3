package ifs

import (
	"iter"
	"math/rand/v2"

	"github.com/matzehuels/fct/pkg/errors"
)

// Source supplies uniformly distributed values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a PCG-backed source. The same seed always produces the
// same stream of values.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Bounds is the inclusive range of point counts a generator accepts.
type Bounds struct {
	Min int `json:"min" toml:"min" yaml:"min"`
	Max int `json:"max" toml:"max" yaml:"max"`
}

// DefaultBounds keeps clouds dense enough to show the attractor while
// bounding memory and runtime.
var DefaultBounds = Bounds{Min: 2500, Max: 6400}

// Check reports an InvalidArgument error naming the violated bound when
// count falls outside b.
func (b Bounds) Check(count int) error {
	return errors.ValidateIntRange("number of points", count, b.Min, b.Max)
}

// Validate checks that b describes a non-empty range of positive counts.
func (b Bounds) Validate() error {
	if b.Min < 1 || b.Max < b.Min {
		return errors.New(errors.ErrCodeInvalidArgument, "invalid point bounds <%d, %d>", b.Min, b.Max)
	}
	return nil
}

// Step is one generated point together with the 1-based index of the map
// that produced it.
type Step struct {
	Point
	Map int `json:"map"`
}

// Generator runs the chaotic iteration. It is not safe for concurrent use:
// it owns its random source.
type Generator struct {
	src    Source
	bounds Bounds
}

// NewGenerator returns a generator drawing from src. A nil src gets a
// randomly seeded source.
func NewGenerator(src Source, bounds Bounds) *Generator {
	if src == nil {
		src = NewSource(rand.Uint64())
	}
	return &Generator{src: src, bounds: bounds}
}

// Bounds returns the accepted point-count range.
func (g *Generator) Bounds() Bounds { return g.bounds }

// Generate validates count and returns a lazy sequence of exactly count
// steps starting from (x0, y0). Nothing is drawn from the source until the
// sequence is iterated.
func (g *Generator) Generate(m *Model, count int, x0, y0 float64) (*Sequence, error) {
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "no fractal model given")
	}
	if err := g.bounds.Check(count); err != nil {
		return nil, err
	}
	return &Sequence{
		model: m,
		src:   g.src,
		count: count,
		start: Point{X: x0, Y: y0},
	}, nil
}

// Sequence is a finite, single-pass stream of generated steps. Run the
// generator again to get a fresh one.
type Sequence struct {
	model    *Model
	src      Source
	count    int
	start    Point
	consumed bool
}

// Len returns the number of steps the sequence yields.
func (s *Sequence) Len() int { return s.count }

// Model returns the recipe driving the sequence.
func (s *Sequence) Model() *Model { return s.model }

// All yields the steps on demand. Only the first iteration produces values;
// stopping early discards the rest.
func (s *Sequence) All() iter.Seq[Step] {
	return func(yield func(Step) bool) {
		if s.consumed {
			return
		}
		s.consumed = true

		cur := s.start
		for range s.count {
			i := s.model.SelectMap(s.src.Float64())
			cur = s.model.entries[i].Map.Apply(cur)
			if !yield(Step{Point: cur, Map: i + 1}) {
				return
			}
		}
	}
}

// Collect drains the sequence into a slice.
func (s *Sequence) Collect() []Step {
	out := make([]Step, 0, s.count)
	for step := range s.All() {
		out = append(out, step)
	}
	return out
}

// Points strips map indices from steps.
func Points(steps []Step) []Point {
	out := make([]Point, len(steps))
	for i, s := range steps {
		out[i] = s.Point
	}
	return out
}
