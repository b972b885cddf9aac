package backend

import (
	"fmt"
	"strings"
	"sync"
)

// Registry maps backend names to their singleton implementations.
// The zero value is not usable; create one with NewRegistry.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	backends map[string]Backend
}

// NewRegistry creates an empty backend registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// Register adds a backend under its name. Registering the same name again
// replaces the previous entry but keeps its position in the registration order.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := b.Name()
	if _, exists := r.backends[name]; !exists {
		r.order = append(r.order, name)
	}
	r.backends[name] = b
}

// Get returns the backend registered under name.
func (r *Registry) Get(name string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q, available: %s", name, strings.Join(r.order, ", "))
	}
	return b, nil
}

// Names returns all registered backend names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// defaultRegistry holds the backends registered by the variant packages at
// process start via their init functions.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a backend to the default registry. Variant packages call this
// from init; importing pkg/backend/all pulls in the full set.
func Register(b Backend) {
	defaultRegistry.Register(b)
}
