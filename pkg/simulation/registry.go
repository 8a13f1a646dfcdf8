package simulation

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a fresh simulation instance
type Factory func() Simulation

type entry struct {
	manifest *Manifest
	factory  Factory
}

// Registry manages available simulations
type Registry struct {
	mu          sync.RWMutex
	simulations map[string]entry
}

// NewRegistry creates a new simulation registry
func NewRegistry() *Registry {
	return &Registry{
		simulations: make(map[string]entry),
	}
}

// Register adds a simulation under its manifest name
func (r *Registry) Register(manifest *Manifest, factory Factory) error {
	if manifest == nil {
		return fmt.Errorf("simulation manifest is required")
	}
	if err := manifest.Validate(); err != nil {
		return fmt.Errorf("invalid manifest: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.simulations[manifest.Name]; exists {
		return fmt.Errorf("simulation %s already registered", manifest.Name)
	}

	r.simulations[manifest.Name] = entry{manifest: manifest, factory: factory}
	return nil
}

// Get returns a new instance of the requested simulation
func (r *Registry) Get(name string) (Simulation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.simulations[name]
	if !exists {
		return nil, fmt.Errorf("simulation %s not found", name)
	}

	return e.factory(), nil
}

// Manifest returns the manifest a simulation was registered with
func (r *Registry) Manifest(name string) (*Manifest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.simulations[name]
	if !exists {
		return nil, fmt.Errorf("simulation %s not found", name)
	}
	return e.manifest, nil
}

// List returns all registered simulation names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.simulations))
	for name := range r.simulations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Manifests returns the manifests of all registered simulations, sorted by name
func (r *Registry) Manifests() []*Manifest {
	names := r.List()

	r.mu.RLock()
	defer r.mu.RUnlock()

	manifests := make([]*Manifest, 0, len(names))
	for _, name := range names {
		manifests = append(manifests, r.simulations[name].manifest)
	}
	return manifests
}

// DefaultRegistry is the global simulation registry
var DefaultRegistry = NewRegistry()
