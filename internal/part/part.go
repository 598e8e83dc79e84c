// Package part defines the kinded build components of a project and the
// graph operations over them: identity, coercion, kind filters and
// dependency closure.
//
// A Part is immutable once constructed. Its products and rules are
// functions of an environment and of its dependencies' already derived
// data, which the caller supplies through Resolved.
package part

import (
	"context"
	"fmt"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/rule"
)

// Kind is the kind tag of a part.
type Kind uint8

const (
	KindBase Kind = iota
	KindUnit
	KindLib
	KindBin
	KindPkg
	KindRun
	KindDoc
	KindDir
	KindSilo
	KindCustom
)

var kindNames = [...]string{
	KindBase:   "base",
	KindUnit:   "unit",
	KindLib:    "lib",
	KindBin:    "bin",
	KindPkg:    "pkg",
	KindRun:    "run",
	KindDoc:    "doc",
	KindDir:    "dir",
	KindSilo:   "silo",
	KindCustom: "custom",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown part kind %q", s)
}

// Kinds lists the concrete kinds in declaration order.
func Kinds() []Kind {
	return []Kind{KindUnit, KindLib, KindBin, KindPkg, KindRun, KindDoc, KindDir, KindSilo, KindCustom}
}

// Part is a named, kinded, conditioned node of the build graph.
type Part interface {
	Name() string
	Kind() Kind
	// Cond is the declared condition, without the dependencies' ones.
	Cond() cond.Cond
	// Deps are the declared immediate dependencies.
	Deps() []Part
	// Args are the part's own arguments.
	Args(ctx context.Context, e *env.Env) (args.Args, error)
	// Rules derives the part's rules. It must not perform I/O.
	Rules(e *env.Env, r Resolved) ([]rule.Rule, error)
}

// Resolved exposes what has already been derived for a part and its
// dependencies.
type Resolved interface {
	// Cond is the effective condition: the declared one conjoined with the
	// effective conditions of all dependencies.
	Cond(p Part) cond.Cond
	// Args are the effective arguments.
	Args(p Part) args.Args
	// Products are the outputs of the part's rules.
	Products(p Part) []rule.Product
}

// HasUnits is implemented by parts built from compilation units.
type HasUnits interface {
	Part
	Units() []*Unit
}

// HasPackages is implemented by parts that depend on external packages.
type HasPackages interface {
	Part
	Packages() []*Pkg
}

// Option configures the fields every kind shares.
type Option func(*meta)

// WithCond sets the part's declared condition.
func WithCond(c cond.Cond) Option {
	return func(m *meta) { m.cond = c }
}

// WithDeps appends dependencies.
func WithDeps(ps ...Part) Option {
	return func(m *meta) { m.deps = append(m.deps, ps...) }
}

// WithArgs appends own arguments.
func WithArgs(a args.Args) Option {
	return func(m *meta) { m.args = args.Append(m.args, a) }
}

// meta is embedded by every kind.
type meta struct {
	name string
	kind Kind
	cond cond.Cond
	deps []Part
	args args.Args
}

func newMeta(kind Kind, name string, opts []Option) meta {
	m := meta{name: name, kind: kind, cond: cond.True()}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m *meta) Name() string    { return m.name }
func (m *meta) Kind() Kind      { return m.kind }
func (m *meta) Cond() cond.Cond { return m.cond }
func (m *meta) Deps() []Part    { return append([]Part(nil), m.deps...) }

func (m *meta) Args(context.Context, *env.Env) (args.Args, error) {
	return m.args, nil
}

func (m *meta) String() string { return m.kind.String() + "." + m.name }

// Products collects the outputs of rules.
func Products(rules []rule.Rule) []rule.Product {
	var out []rule.Product
	for _, r := range rules {
		out = append(out, r.Outputs...)
	}
	return out
}
