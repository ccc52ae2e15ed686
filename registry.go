package bgrules

import (
	"fmt"
	"sort"
)

// Registry maps variant names to constructors.
type Registry struct {
	factories map[string]func() Variant
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]func() Variant),
	}
}

// DefaultRegistry returns a new registry holding every built in variant.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("bulgarian", func() Variant { return NewBulgarian() })
	return r
}

// Register adds a variant. Registering a name twice panics.
func (r *Registry) Register(name string, factory func() Variant) {
	if _, ok := r.factories[name]; ok {
		panic(fmt.Sprintf("variant %s already registered", name))
	}
	r.factories[name] = factory
}

// New returns a fresh instance of the named variant.
func (r *Registry) New(name string) (Variant, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVariantUnknown, name)
	}
	return f(), nil
}

// Names returns the registered variant names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Infos returns the metadata of every registered variant, sorted by name.
func (r *Registry) Infos() []Info {
	var infos []Info
	for _, name := range r.Names() {
		infos = append(infos, r.factories[name]().Info())
	}
	return infos
}
