package ifs

import (
	"math"
	"testing"

	"github.com/matzehuels/fct/pkg/errors"
)

// countingSource replays vals (cycling) and records how many draws were made.
type countingSource struct {
	vals  []float64
	draws int
}

func (s *countingSource) Float64() float64 {
	v := s.vals[s.draws%len(s.vals)]
	s.draws++
	return v
}

func TestAffineMapApply(t *testing.T) {
	m := NewAffineMap(0.42, -0.42, 0.42, 0.42, 0, 0.2)
	got := m.Apply(Point{X: 1, Y: 2})
	want := Point{X: 0.42 - 0.84, Y: 0.42 + 0.84 + 0.2}
	if math.Abs(got.X-want.X) > 1e-12 || math.Abs(got.Y-want.Y) > 1e-12 {
		t.Errorf("Apply = %v, want %v", got, want)
	}

	id := NewAffineMap(1, 0, 0, 1, 0, 0)
	if p := id.Apply(Point{X: 3, Y: -4}); p != (Point{X: 3, Y: -4}) {
		t.Errorf("identity Apply = %v", p)
	}
	if c := m.Coefficients(); c != [6]float64{0.42, -0.42, 0.42, 0.42, 0, 0.2} {
		t.Errorf("Coefficients = %v", c)
	}
}

func TestSelectMapBoundaries(t *testing.T) {
	below := func(v float64) float64 { return math.Nextafter(v, math.Inf(-1)) }
	above := func(v float64) float64 { return math.Nextafter(v, math.Inf(1)) }

	tests := []struct {
		name  string
		model *Model
		v     float64
		want  int
	}{
		{"tree zero", Tree(), 0, 0},
		{"tree below 0.05", Tree(), below(0.05), 0},
		{"tree at 0.05", Tree(), 0.05, 0},
		{"tree above 0.05", Tree(), above(0.05), 1},
		{"tree at 0.45", Tree(), 0.45, 1},
		{"tree above 0.45", Tree(), above(0.45), 2},
		{"tree at 0.85", Tree(), 0.85, 2},
		{"tree above 0.85", Tree(), above(0.85), 3},
		{"tree just below 1", Tree(), below(1), 3},
		{"tree beyond range", Tree(), 1.5, 3},

		{"triangle zero", Triangle(), 0, 0},
		{"triangle at 1/3", Triangle(), 1.0 / 3, 0},
		{"triangle above 1/3", Triangle(), above(1.0 / 3), 1},
		{"triangle at 2/3", Triangle(), 2.0 / 3, 1},
		{"triangle above 2/3", Triangle(), above(2.0 / 3), 2},
		{"triangle just below 1", Triangle(), below(1), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.model.SelectMap(tt.v); got != tt.want {
				t.Errorf("SelectMap(%v) = %d, want %d", tt.v, got, tt.want)
			}
		})
	}
}

func TestSelectMapExhaustive(t *testing.T) {
	for _, m := range Builtin() {
		t.Run(m.Kind, func(t *testing.T) {
			const n = 100000
			hits := make([]int, m.Len())
			prev := 0
			for k := 0; k < n; k++ {
				v := float64(k) / n
				i := m.SelectMap(v)
				if i < 0 || i >= m.Len() {
					t.Fatalf("SelectMap(%v) = %d out of range", v, i)
				}
				if i < prev {
					t.Fatalf("SelectMap not monotonic at %v: %d after %d", v, i, prev)
				}
				prev = i
				hits[i]++
			}
			for i, p := range m.Probabilities() {
				got := float64(hits[i]) / n
				if math.Abs(got-p) > 1e-3 {
					t.Errorf("map %d covers %.4f of the range, want %.4f", i+1, got, p)
				}
			}
		})
	}
}

func TestBuiltinRecipes(t *testing.T) {
	tr := Tree().Entries()
	if len(tr) != 4 {
		t.Fatalf("tree has %d maps, want 4", len(tr))
	}
	if tr[1].Map != NewAffineMap(0.42, -0.42, 0.42, 0.42, 0, 0.2) {
		t.Errorf("tree map 2 = %+v", tr[1].Map)
	}
	wantTree := []float64{0.05, 0.40, 0.40, 0.15}
	for i, p := range Tree().Probabilities() {
		if math.Abs(p-wantTree[i]) > 1e-12 {
			t.Errorf("tree probability %d = %v, want %v", i+1, p, wantTree[i])
		}
	}

	tri := Triangle().Entries()
	if len(tri) != 3 {
		t.Fatalf("triangle has %d maps, want 3", len(tri))
	}
	if tri[2].Map != NewAffineMap(0.5, 0, 0, 0.5, 50, 50) {
		t.Errorf("triangle map 3 = %+v", tri[2].Map)
	}
	if Triangle().Name != "SierpinskiTriangle" || Tree().Name != "FractalTree" {
		t.Errorf("unexpected names %q, %q", Triangle().Name, Tree().Name)
	}
}

func TestNewModelValidation(t *testing.T) {
	id := NewAffineMap(1, 0, 0, 1, 0, 0)
	tests := []struct {
		name    string
		kind    string
		entries []Entry
		wantErr bool
	}{
		{"valid single", "dot", []Entry{{id, 1}}, false},
		{"valid pair", "pair", []Entry{{id, 0.3}, {id, 1}}, false},
		{"empty", "none", nil, true},
		{"bad kind", "Bad Kind", []Entry{{id, 1}}, true},
		{"not increasing", "flat", []Entry{{id, 0.5}, {id, 0.5}, {id, 1}}, true},
		{"decreasing", "down", []Entry{{id, 0.6}, {id, 0.4}, {id, 1}}, true},
		{"gap at end", "short", []Entry{{id, 0.4}, {id, 0.9}}, true},
		{"zero threshold", "zero", []Entry{{id, 0}, {id, 1}}, true},
		{"percent units", "pct", []Entry{{id, 33}, {id, 66}, {id, 100}}, true},
		{"nan", "nan", []Entry{{id, math.NaN()}, {id, 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModel(tt.kind, tt.name, tt.entries...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewModel error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.IsInvalid(err) {
				t.Errorf("NewModel error code = %q, want an INVALID_* code", errors.GetCode(err))
			}
		})
	}
}

func TestModelEntriesIsCopy(t *testing.T) {
	e := Tree().Entries()
	e[0].Threshold = 0.9
	if Tree().Entries()[0].Threshold != 0.05 {
		t.Error("Entries must not expose the model's internal slice")
	}
}
