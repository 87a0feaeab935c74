package tool

import (
	"fmt"
	"sync"

	"github.com/gamedex-io/gamedex/pkg/protocol"
)

// Registry holds the tool catalog keyed by name. The catalog is built
// once at startup; registration order is preserved so the published
// descriptor list is stable.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry. Registering the same name twice
// is a wiring bug and fails rather than silently replacing the first.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := t.Name()
	if _, ok := r.tools[name]; ok {
		return fmt.Errorf("%w: %q", ErrToolExists, name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// Has returns true if a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Descriptors returns the wire descriptors of all registered tools in
// registration order.
func (r *Registry) Descriptors() []protocol.ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descs := make([]protocol.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		descs = append(descs, Describe(r.tools[name]))
	}
	return descs
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
