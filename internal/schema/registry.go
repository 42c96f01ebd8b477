package schema

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Registry indexes entity descriptors by name. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]*Entity
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entities: map[string]*Entity{}}
}

// Register adds entities. Registering the same descriptor twice is a no-op;
// a different descriptor under an existing name is an error.
func (r *Registry) Register(entities ...*Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entities {
		if prev, ok := r.entities[e.Name]; ok && prev != e {
			return fmt.Errorf("schema: entity %s already registered", e.Name)
		}
		r.entities[e.Name] = e
	}
	return nil
}

// RegisterType registers the struct type rt and every entity reachable from
// it.
func (r *Registry) RegisterType(rt reflect.Type) error {
	entities, err := Collect(rt)
	if err != nil {
		return err
	}
	return r.Register(entities...)
}

// Lookup returns the named entity.
func (r *Registry) Lookup(name string) (*Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entities[name]
	return e, ok
}

// Names returns registered entity names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entities))
	for n := range r.entities {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
