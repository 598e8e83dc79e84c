package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/multierr"

	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/project"
)

// Module is the interface that lookup providers implement to be registered.
type Module interface {
	Register(r *Registry) error
}

// DuplicateProjectError reports a second project with a taken name.
type DuplicateProjectError struct {
	Name string
}

// Error implements the error interface for DuplicateProjectError.
func (e *DuplicateProjectError) Error() string {
	return fmt.Sprintf("project %q is already registered", e.Name)
}

// Registry holds the projects and lookup mechanisms of one application
// instance. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	projects   map[string]*project.Project
	order      []string
	mechanisms map[string]env.PackageLookup
}

// New creates an empty Registry and registers the given modules.
func New(modules ...Module) (*Registry, error) {
	r := &Registry{
		projects:   make(map[string]*project.Project),
		mechanisms: make(map[string]env.PackageLookup),
	}
	for _, m := range modules {
		if err := m.Register(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// AddProject registers p. Names are unique.
func (r *Registry) AddProject(p *project.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.projects[p.Name()]; exists {
		return &DuplicateProjectError{Name: p.Name()}
	}
	r.projects[p.Name()] = p
	r.order = append(r.order, p.Name())
	return nil
}

// Project returns the project named name.
func (r *Registry) Project(name string) (*project.Project, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[name]
	return p, ok
}

// Projects returns the projects in registration order.
func (r *Registry) Projects() []*project.Project {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*project.Project, len(r.order))
	for i, name := range r.order {
		out[i] = r.projects[name]
	}
	return out
}

// RegisterMechanism plugs in the lookup for a package kind. A kind can only
// be registered once.
func (r *Registry) RegisterMechanism(kind string, l env.PackageLookup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.mechanisms[kind]; exists {
		return fmt.Errorf("lookup mechanism %q already registered", kind)
	}
	r.mechanisms[kind] = l
	return nil
}

// Mechanism implements env.Lookups.
func (r *Registry) Mechanism(kind string) (env.PackageLookup, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.mechanisms[kind]
	return m, ok
}

// Kinds returns the registered mechanism kinds, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.mechanisms))
	for k := range r.mechanisms {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Validate checks that every package of every registered project can be
// resolved: either it has static arguments or its lookup kind has a
// mechanism. All problems are reported together.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	projects := r.Projects()
	var errs error
	for _, p := range projects {
		all, err := p.Closure()
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		for _, pkg := range part.Keep[*part.Pkg](all) {
			if pkg.Lookup() == part.LookupOther && !pkg.Static().IsEmpty() {
				continue
			}
			if _, ok := r.Mechanism(pkg.Lookup()); !ok {
				errs = multierr.Append(errs, fmt.Errorf("project %q: %s: %w", p.Name(), part.ID(pkg), &env.LookupError{Kind: pkg.Lookup()}))
			}
		}
	}
	if errs == nil {
		logger.Debug("Registry validated.", "projects", len(projects), "mechanisms", r.Kinds())
	}
	return errs
}
