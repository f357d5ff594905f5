package widget

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a widget name is not in the registry.
var ErrNotFound = errors.New("widget: not found")

// Registry is the closed set of widgets compiled into the process. It is
// built once at startup and never learns new widgets at runtime; stored
// widget rows are reconciled against it, not the other way around.
type Registry struct {
	names  []string
	byName map[string]Descriptor
}

// NewRegistry builds a registry from descriptors, preserving declaration
// order. Duplicate names are a programming error and rejected.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{byName: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if d.Name == "" || d.Behavior == nil {
			return nil, fmt.Errorf("widget: invalid descriptor %q", d.Name)
		}
		if _, ok := r.byName[d.Name]; ok {
			return nil, fmt.Errorf("widget: duplicate name %q", d.Name)
		}
		r.byName[d.Name] = d
		r.names = append(r.names, d.Name)
	}
	return r, nil
}

// Names returns the widget names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Get returns the descriptor for name or ErrNotFound.
func (r *Registry) Get(name string) (Descriptor, error) {
	d, ok := r.byName[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return d, nil
}

// Has reports whether name is a registered widget.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}
