// Package project holds the assembled, read-only description of a build:
// its parts, atoms, keys and project-wide defaults.
package project

import (
	"errors"
	"fmt"
	"sort"

	"github.com/blang/semver/v4"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/value"
)

// Project is a named root of parts. It is read-only once New returns.
type Project struct {
	name    string
	version *semver.Version
	parts   []part.Part
	atoms   *cond.Registry
	keys    *value.Configuration
	args    args.Args
	truth   cond.Table

	settings map[string]cty.Value
	config   *value.Configuration
}

// Option configures New.
type Option func(*Project) error

// WithVersion sets the project version. It must be valid semver; a leading
// "v" is accepted.
func WithVersion(v string) Option {
	return func(p *Project) error {
		ver, err := semver.ParseTolerant(v)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", v, err)
		}
		p.version = &ver
		return nil
	}
}

// WithParts adds parts. Parts with an identity already present are dropped.
func WithParts(ps ...part.Part) Option {
	return func(p *Project) error {
		p.parts = append(p.parts, ps...)
		return nil
	}
}

// WithAtoms uses r as the project's atom registry.
func WithAtoms(r *cond.Registry) Option {
	return func(p *Project) error {
		p.atoms = r
		return nil
	}
}

// WithKeys adds project-specific configuration keys.
func WithKeys(keys ...value.AnyKey) Option {
	return func(p *Project) error {
		for _, k := range keys {
			next, err := p.keys.Add(k)
			if err != nil {
				return err
			}
			p.keys = next
		}
		return nil
	}
}

// WithArgs adds arguments applied to every part.
func WithArgs(a args.Args) Option {
	return func(p *Project) error {
		p.args = args.Append(p.args, a)
		return nil
	}
}

// WithTruth sets default atom values, weaker than command line overrides.
func WithTruth(t cond.Table) Option {
	return func(p *Project) error {
		for k, v := range t {
			p.truth[k] = v
		}
		return nil
	}
}

// WithSettings sets configuration values, converted through each key's
// converter when New runs.
func WithSettings(s map[string]cty.Value) Option {
	return func(p *Project) error {
		for k, v := range s {
			p.settings[k] = v
		}
		return nil
	}
}

// New assembles a project. It registers the built-in atoms and every atom
// used by a part condition, so two distinct atoms sharing a name are
// reported as *cond.DuplicateAtomError. Dependency cycles are reported as
// *dag.CycleError.
func New(name string, opts ...Option) (*Project, error) {
	if name == "" {
		return nil, errors.New("project name is empty")
	}
	p := &Project{
		name:  name,
		atoms: cond.NewRegistry(),
		keys:  value.Empty(),
		truth: make(cond.Table),

		settings: make(map[string]cty.Value),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("project %q: %w", name, err)
		}
	}
	p.parts = part.ToSet(p.parts)

	cfg := env.Builtin().Merge(p.keys)
	names := make([]string, 0, len(p.settings))
	for n := range p.settings {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		next, err := cfg.SetCty(n, p.settings[n])
		if err != nil {
			return nil, fmt.Errorf("project %q: %w", name, err)
		}
		cfg = next
	}
	p.config = cfg

	if err := env.RegisterAtoms(p.atoms); err != nil {
		return nil, fmt.Errorf("project %q: %w", name, err)
	}
	closure, err := part.Closure(p.parts...)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", name, err)
	}
	for _, pt := range closure {
		for _, a := range cond.Atoms(pt.Cond()) {
			if err := p.atoms.Register(a); err != nil {
				return nil, fmt.Errorf("project %q: part %s: %w", name, part.ID(pt), err)
			}
		}
	}
	for _, e := range flattenArgs(p.args) {
		for _, a := range cond.Atoms(e.Cond) {
			if err := p.atoms.Register(a); err != nil {
				return nil, fmt.Errorf("project %q: %w", name, err)
			}
		}
	}
	return p, nil
}

func flattenArgs(a args.Args) []args.Entry {
	var out []args.Entry
	for _, ctx := range args.Contexts(a) {
		out = append(out, args.Get(ctx, a)...)
	}
	return out
}

func (p *Project) Name() string { return p.name }

// Version returns the version, or "" when unset.
func (p *Project) Version() string {
	if p.version == nil {
		return ""
	}
	return p.version.String()
}

// Parts returns the declared parts in declaration order.
func (p *Project) Parts() []part.Part { return append([]part.Part(nil), p.parts...) }

// Closure returns every part reachable from the declared ones, dependencies
// first.
func (p *Project) Closure() ([]part.Part, error) { return part.Closure(p.parts...) }

// Find returns the part with the given identity among the closure.
func (p *Project) Find(kind part.Kind, name string) (part.Part, bool) {
	all, err := p.Closure()
	if err != nil {
		return nil, false
	}
	for _, pt := range all {
		if pt.Kind() == kind && pt.Name() == name {
			return pt, true
		}
	}
	return nil, false
}

func (p *Project) Atoms() *cond.Registry { return p.atoms }
func (p *Project) Args() args.Args       { return p.args }

// Keys returns the project-specific keys.
func (p *Project) Keys() *value.Configuration { return p.keys }

// Truth returns a copy of the project's default atom values.
func (p *Project) Truth() cond.Table {
	out := make(cond.Table, len(p.truth))
	for k, v := range p.truth {
		out[k] = v
	}
	return out
}

// Configuration is the built-in configuration extended with the project
// keys and settings. Project keys shadow built-in keys of the same name.
func (p *Project) Configuration() *value.Configuration { return p.config }
