package part

import (
	"context"
	"fmt"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/rule"
)

// Package lookup kinds.
const (
	LookupOcamlfind = "ocamlfind"
	LookupPkgConfig = "pkg-config"
	LookupOther     = "other"
)

// PkgSpec says how an external package is found.
type PkgSpec struct {
	// Lookup names the mechanism; defaults to ocamlfind.
	Lookup string
	// Static arguments replace the lookup for the "other" kind.
	Static args.Args
}

// Pkg is an external package. It has no products; it only contributes
// arguments to its dependents.
type Pkg struct {
	meta
	spec PkgSpec
}

// NewPkg creates a package part.
func NewPkg(name string, spec PkgSpec, opts ...Option) *Pkg {
	if spec.Lookup == "" {
		spec.Lookup = LookupOcamlfind
	}
	return &Pkg{meta: newMeta(KindPkg, name, opts), spec: spec}
}

// Lookup returns the lookup mechanism kind.
func (p *Pkg) Lookup() string { return p.spec.Lookup }

// Static returns the static arguments of an "other" package.
func (p *Pkg) Static() args.Args { return p.spec.Static }

// Args resolves the package through the environment's lookup mechanism for
// its kind, followed by its own arguments.
func (p *Pkg) Args(ctx context.Context, e *env.Env) (args.Args, error) {
	if p.spec.Lookup == LookupOther && !p.spec.Static.IsEmpty() {
		return args.Append(p.spec.Static, p.args), nil
	}
	m, err := e.Lookup(p.spec.Lookup)
	if err != nil {
		return args.Empty(), err
	}
	found, err := m.Lookup(ctx, p.name)
	if err != nil {
		return args.Empty(), fmt.Errorf("looking up package %q: %w", p.name, err)
	}
	return args.Append(found, p.args), nil
}

// Rules is empty.
func (p *Pkg) Rules(*env.Env, Resolved) ([]rule.Rule, error) { return nil, nil }
