// Package strategies provides the strategy pattern implementation for route harvesting.
// Each web framework with a known routing convention (Django, Express) has its own strategy.
package strategies

import (
	"context"
	"sort"
	"sync"

	"github.com/specvital/routedoc/pkg/domain"
)

// DefaultPriority is the default priority for strategies.
// Higher priority strategies are checked first.
const DefaultPriority = 100

var defaultRegistry = &Registry{}

// Env carries workspace facts a harvester may need beyond the manifest text.
type Env struct {
	// ProjectVerified is true when the workspace carries the framework's
	// project-root marker (manage.py or wsgi.py for Django).
	ProjectVerified bool
}

// Strategy defines the interface for framework-specific route harvesters.
type Strategy interface {
	// Name returns the strategy identifier (e.g., "django", "express").
	Name() string
	// Priority returns the strategy priority (higher = checked first).
	Priority() int
	// Framework returns the framework label the strategy serves.
	Framework() string
	// ManifestPatterns returns doublestar globs locating the manifest files.
	ManifestPatterns() []string
	// Dialect returns the block dialect of the framework's handler sources.
	Dialect() domain.Dialect
	// SourceExtensions returns the extensions searched when locating handlers.
	SourceExtensions() []string
	// Harvest extracts route declarations from manifest files, in match order.
	Harvest(ctx context.Context, files []domain.SourceFile, env Env) ([]domain.RouteDeclaration, error)
}

// Registry manages registered strategies.
type Registry struct {
	mu         sync.RWMutex
	strategies []Strategy
}

// NewRegistry creates a new empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry returns the global default registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a strategy to the default registry.
func Register(s Strategy) {
	defaultRegistry.Register(s)
}

// GetStrategies returns all registered strategies from the default registry.
func GetStrategies() []Strategy {
	return defaultRegistry.GetStrategies()
}

// FindStrategy returns the highest priority strategy for the framework label
// from the default registry.
func FindStrategy(framework string) Strategy {
	return defaultRegistry.FindByFramework(framework)
}

// Register adds a strategy to the registry.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies = append(r.strategies, s)
	r.sortByPriority()
}

func (r *Registry) sortByPriority() {
	sort.SliceStable(r.strategies, func(i, j int) bool {
		return r.strategies[i].Priority() > r.strategies[j].Priority()
	})
}

// GetStrategies returns a copy of all registered strategies.
func (r *Registry) GetStrategies() []Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Strategy, len(r.strategies))
	copy(result, r.strategies)
	return result
}

// FindByFramework returns the first strategy serving the framework label.
func (r *Registry) FindByFramework(framework string) Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.strategies {
		if s.Framework() == framework {
			return s
		}
	}
	return nil
}

// FindByName returns the strategy with the given name.
func (r *Registry) FindByName(name string) Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.strategies {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// Clear removes all registered strategies.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies = nil
}
