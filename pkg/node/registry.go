package node

import (
	"fmt"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Registry is the name to descriptor table the host reads nodes from.
// It is populated once at process start and read-only afterwards.
type Registry struct {
	mu    sync.RWMutex
	nodes map[string]Descriptor
}

func NewRegistry() *Registry {
	return &Registry{
		nodes: make(map[string]Descriptor),
	}
}

func (r *Registry) Register(name string, d Descriptor) error {
	if name == "" {
		return fmt.Errorf("node name is empty")
	}
	if d == nil {
		return fmt.Errorf("node descriptor is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nodes[name]; ok {
		return fmt.Errorf("node already registered: %s", name)
	}
	log.Debugf("Registering node: %s", name)
	r.nodes[name] = d
	return nil
}

func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.nodes[name]
	return d, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.nodes))
	for name := range r.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Register adds a node to the default registry.
func Register(name string, d Descriptor) error {
	return defaultRegistry.Register(name, d)
}

// Lookup finds a node in the default registry.
func Lookup(name string) (Descriptor, bool) {
	return defaultRegistry.Lookup(name)
}

// Names lists the nodes in the default registry in sorted order.
func Names() []string {
	return defaultRegistry.Names()
}
