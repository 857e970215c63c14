package secret

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ProviderFactory builds a Provider from its section of the secrets config,
// for example {"region": "eu-west-1"} for ssm.
type ProviderFactory func(cfg map[string]any) (Provider, error)

// Registry maps the provider segment of a secretref (the "ssm" in
// secretref:ssm:/app/env/Redis/ConnectionString) to the factory that builds
// it. Providers are created once at startup and handed to a Resolver.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

// Register adds a factory under name. Names are unique; provider packages
// register themselves from init.
func (r *Registry) Register(name string, factory ProviderFactory) error {
	name = strings.TrimSpace(name)
	if name == "" || factory == nil {
		return fmt.Errorf("%w: name and factory are required", ErrInvalidRef)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateProvider, name)
	}
	r.factories[name] = factory
	return nil
}

// Create builds the provider registered as name. Factory errors are
// wrapped with the provider name so startup failures say which store failed.
func (r *Registry) Create(name string, cfg map[string]any) (Provider, error) {
	name = strings.TrimSpace(name)

	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotRegistered, name)
	}
	p, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("secret: create %q provider: %w", name, err)
	}
	return p, nil
}

// List returns registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the providers compiled into the binary; ssm
// registers itself here.
var DefaultRegistry = NewRegistry()
