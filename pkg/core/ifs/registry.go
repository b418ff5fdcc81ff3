package ifs

import (
	"slices"
	"sort"
	"sync"

	"github.com/matzehuels/fct/pkg/errors"
)

// Registry resolves fractal kinds to models. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*Model
}

// NewRegistry returns a registry holding the built-in models plus extra.
func NewRegistry(extra ...*Model) *Registry {
	r := &Registry{models: make(map[string]*Model)}
	for _, m := range Builtin() {
		r.models[m.Kind] = m
	}
	for _, m := range extra {
		r.models[m.Kind] = m
	}
	return r
}

// Register adds or replaces a model. Built-in kinds cannot be replaced.
func (r *Registry) Register(m *Model) error {
	if m == nil {
		return errors.New(errors.ErrCodeInvalidArgument, "nil model")
	}
	if err := errors.ValidateKind(m.Kind); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if m.Kind == KindTree || m.Kind == KindTriangle {
		return errors.New(errors.ErrCodeInvalidKind, "cannot replace built-in fractal %q", m.Kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[m.Kind] = m
	return nil
}

// Lookup returns the model registered under kind.
func (r *Registry) Lookup(kind string) (*Model, error) {
	r.mu.RLock()
	m, ok := r.models[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidKind,
			"unknown fractal %q (known: %v)", kind, r.Kinds())
	}
	return m, nil
}

// Kinds returns the registered kinds: built-ins first, then the rest sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var custom []string
	for k := range r.models {
		if k != KindTree && k != KindTriangle {
			custom = append(custom, k)
		}
	}
	sort.Strings(custom)
	return slices.Concat([]string{KindTree, KindTriangle}, custom)
}

// Models returns the registered models in [Registry.Kinds] order.
func (r *Registry) Models() []*Model {
	kinds := r.Kinds()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Model, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, r.models[k])
	}
	return out
}
