package engine

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates engines of a particular kind. Factories are
// registered with a Registry; the registry picks the best available
// one when the caller does not name a specific engine.
type Factory interface {
	// Name identifies the factory (e.g. "beep").
	Name() string
	// Description is a short human-readable summary.
	Description() string
	// Priority orders factories; higher wins.
	Priority() int
	// Available reports whether this factory can produce a working
	// engine on the current system.
	Available() bool
	// CanPlay reports whether engines from this factory can play the
	// given locator.
	CanPlay(locator string) bool
	// New creates a fresh engine instance.
	New() (Engine, error)
}

// Registry holds the set of known engine factories.
type Registry struct {
	mu        sync.Mutex
	factories []Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a factory. Factories are kept sorted by descending
// priority so iteration order is selection order.
func (r *Registry) Register(f Factory) {
	if f == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = append(r.factories, f)
	sort.SliceStable(r.factories, func(i, j int) bool {
		return r.factories[i].Priority() > r.factories[j].Priority()
	})
}

// Names returns the names of all available factories, best first.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var names []string
	for _, f := range r.factories {
		if f.Available() {
			names = append(names, f.Name())
		}
	}
	return names
}

// New creates an engine from the named factory. An empty name selects
// the highest-priority available factory.
func (r *Registry) New(name string) (Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.factories {
		if !f.Available() {
			continue
		}
		if name == "" || f.Name() == name {
			return f.New()
		}
	}
	if name == "" {
		return nil, fmt.Errorf("no engine available")
	}
	return nil, fmt.Errorf("engine %q not available", name)
}

// NewForLocator creates an engine from the best available factory
// that reports it can play the given locator.
func (r *Registry) NewForLocator(locator string) (Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.factories {
		if f.Available() && f.CanPlay(locator) {
			return f.New()
		}
	}
	return nil, fmt.Errorf("no engine can play %q", locator)
}

// CanPlay reports whether any available factory can play the locator.
func (r *Registry) CanPlay(locator string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.factories {
		if f.Available() && f.CanPlay(locator) {
			return true
		}
	}
	return false
}
