// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package recommend

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Registry binds model names to sources.
//
// Sources are registered during startup and the registry is then sealed.
// After Seal, Resolve takes no locks and Register fails.
type Registry struct {
	mu      sync.Mutex
	sources map[string]Source
	sealed  atomic.Bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register binds name to src.
func (r *Registry) Register(name string, src Source) error {
	if name == "" {
		return fmt.Errorf("register source: empty model name")
	}
	if src == nil {
		return fmt.Errorf("register source %q: nil source", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return fmt.Errorf("register source %q: registry is sealed", name)
	}
	if _, exists := r.sources[name]; exists {
		return fmt.Errorf("register source %q: already registered", name)
	}
	r.sources[name] = src
	return nil
}

// Seal freezes the registry. It is safe to call more than once.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed.Store(true)
	r.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

// Resolve returns the source bound to name.
func (r *Registry) Resolve(name string) (Source, error) {
	if !r.sealed.Load() {
		// Register may still be writing the map.
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	src, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("model %q: %w", name, ErrModelMisconfigured)
	}
	return src, nil
}

// Names returns the registered model names in lexical order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
