// Package env assembles the build environment parts are evaluated in: a
// configuration, the truth table derived from it, and the package lookup
// mechanisms.
package env

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/value"
)

// PackageLookup resolves the arguments an external package contributes,
// per context.
type PackageLookup interface {
	Lookup(ctx context.Context, pkg string) (args.Args, error)
}

// Lookups finds the lookup mechanism registered for a kind such as
// "ocamlfind" or "pkg-config".
type Lookups interface {
	Mechanism(kind string) (PackageLookup, bool)
}

// LookupError reports a package kind without a registered mechanism.
type LookupError struct {
	Kind string
}

// Error implements the error interface for LookupError.
func (e *LookupError) Error() string {
	return fmt.Sprintf("no package lookup mechanism registered for %q", e.Kind)
}

// Env is an immutable build environment.
type Env struct {
	cfg     *value.Configuration
	table   cond.Table
	lookups Lookups
}

// Option configures New.
type Option func(*options)

type options struct {
	truth   cond.Table
	lookups Lookups
}

// WithTruth overrides atom values. Overrides win over configuration keys.
func WithTruth(t cond.Table) Option {
	return func(o *options) {
		for k, v := range t {
			o.truth[k] = v
		}
	}
}

// WithLookups sets the package lookup mechanisms.
func WithLookups(l Lookups) Option {
	return func(o *options) { o.lookups = l }
}

// New evaluates cfg into an environment. Every boolean key of cfg becomes
// a truth table entry for the atom of the same name, hyphens read as
// underscores.
func New(cfg *value.Configuration, opts ...Option) (*Env, error) {
	o := options{truth: make(cond.Table)}
	for _, opt := range opts {
		opt(&o)
	}

	table := make(cond.Table)
	for _, k := range cfg.Keys() {
		if k.TypeName() != value.Bool.Name {
			continue
		}
		v, err := cfg.Get(k.Name())
		if err != nil {
			return nil, fmt.Errorf("evaluating key %q: %w", k.Name(), err)
		}
		table[AtomName(k.Name())] = v.(bool)
	}
	for k, v := range o.truth {
		table[k] = v
	}
	return &Env{cfg: cfg, table: table, lookups: o.lookups}, nil
}

// AtomName maps a key name to the atom name it drives.
func AtomName(key string) string {
	return strings.ReplaceAll(key, "-", "_")
}

// Config returns the configuration.
func (e *Env) Config() *value.Configuration { return e.cfg }

// Table returns a copy of the truth table.
func (e *Env) Table() cond.Table {
	out := make(cond.Table, len(e.table))
	for k, v := range e.table {
		out[k] = v
	}
	return out
}

// Holds evaluates c in e.
func (e *Env) Holds(c cond.Cond) bool { return cond.Eval(e.table, c) }

// BuildDir returns the build directory.
func (e *Env) BuildDir() (string, error) { return Get(e, value.Lookup(KeyBuildDir)) }

// Lookup returns the package lookup mechanism for kind.
func (e *Env) Lookup(kind string) (PackageLookup, error) {
	if e.lookups != nil {
		if m, ok := e.lookups.Mechanism(kind); ok {
			return m, nil
		}
	}
	return nil, &LookupError{Kind: kind}
}

// Get evaluates v in the configuration of e.
func Get[T any](e *Env, v value.Value[T]) (T, error) {
	return value.Eval(v, e.cfg)
}
