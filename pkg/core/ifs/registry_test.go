package ifs

import (
	"slices"
	"testing"

	"github.com/matzehuels/fct/pkg/errors"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	for _, kind := range []string{KindTree, KindTriangle} {
		m, err := r.Lookup(kind)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", kind, err)
		}
		if m.Kind != kind {
			t.Errorf("Lookup(%q).Kind = %q", kind, m.Kind)
		}
	}

	_, err := r.Lookup("dragon")
	if !errors.Is(err, errors.ErrCodeInvalidKind) {
		t.Errorf("Lookup(unknown) error = %v, want INVALID_KIND", err)
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	fern, err := NewModel("fern", "BarnsleyFern",
		Entry{NewAffineMap(0, 0, 0, 0.16, 0, 0), 0.01},
		Entry{NewAffineMap(0.85, 0.04, -0.04, 0.85, 0, 1.6), 0.86},
		Entry{NewAffineMap(0.2, -0.26, 0.23, 0.22, 0, 1.6), 0.93},
		Entry{NewAffineMap(-0.15, 0.28, 0.26, 0.24, 0, 0.44), 1},
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Register(fern); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got := r.Kinds(); !slices.Equal(got, []string{"tree", "triangle", "fern"}) {
		t.Errorf("Kinds() = %v", got)
	}
	if len(r.Models()) != 3 {
		t.Errorf("Models() has %d entries", len(r.Models()))
	}

	fake, _ := NewModel("tree", "Fake", Entry{NewAffineMap(1, 0, 0, 1, 0, 0), 1})
	if err := r.Register(fake); err == nil {
		t.Error("replacing a built-in should fail")
	}
	if err := r.Register(nil); err == nil {
		t.Error("registering nil should fail")
	}
}
