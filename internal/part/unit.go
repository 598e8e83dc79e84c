package part

import (
	"fmt"
	"path"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/rule"
)

// Variant says which source files a unit has.
type Variant uint8

const (
	Both Variant = iota
	ImplOnly
	IntfOnly
)

func (v Variant) String() string {
	switch v {
	case ImplOnly:
		return "impl"
	case IntfOnly:
		return "intf"
	}
	return "both"
}

// ParseVariant parses "both", "impl" or "intf".
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "", "both":
		return Both, nil
	case "impl":
		return ImplOnly, nil
	case "intf":
		return IntfOnly, nil
	}
	return 0, fmt.Errorf("unknown unit variant %q", s)
}

// Visibility controls what dependents and documentation see of a unit.
type Visibility uint8

const (
	Normal Visibility = iota
	// Opaque units are compiled with -opaque; dependents do not depend on
	// their native implementation.
	Opaque
	// Hidden units are excluded from documentation and installs.
	Hidden
)

func (v Visibility) String() string {
	switch v {
	case Opaque:
		return "opaque"
	case Hidden:
		return "hidden"
	}
	return "normal"
}

// ParseVisibility parses "normal", "opaque" or "hidden".
func ParseVisibility(s string) (Visibility, error) {
	switch s {
	case "", "normal":
		return Normal, nil
	case "opaque":
		return Opaque, nil
	case "hidden":
		return Hidden, nil
	}
	return 0, fmt.Errorf("unknown unit visibility %q", s)
}

// UnitSpec is the metadata of a compilation unit.
type UnitSpec struct {
	// Dir is the source directory, relative to the project root.
	Dir        string
	Variant    Variant
	Visibility Visibility
}

// Unit is a compilation unit: a .ml and/or .mli file.
type Unit struct {
	meta
	spec UnitSpec
}

// NewUnit creates a compilation unit.
func NewUnit(name string, spec UnitSpec, opts ...Option) *Unit {
	if spec.Dir == "" {
		spec.Dir = "."
	}
	spec.Dir = path.Clean(spec.Dir)
	return &Unit{meta: newMeta(KindUnit, name, opts), spec: spec}
}

func (u *Unit) Dir() string            { return u.spec.Dir }
func (u *Unit) Variant() Variant       { return u.spec.Variant }
func (u *Unit) Visibility() Visibility { return u.spec.Visibility }

// Packages returns the package dependencies.
func (u *Unit) Packages() []*Pkg { return Keep[*Pkg](u.deps) }

// Impl is the implementation source file.
func (u *Unit) Impl() rule.Product {
	return rule.File(path.Join(u.spec.Dir, u.name+".ml"), cond.True())
}

// Intf is the interface source file.
func (u *Unit) Intf() rule.Product {
	return rule.File(path.Join(u.spec.Dir, u.name+".mli"), cond.True())
}

// Sources lists the unit's existing source files.
func (u *Unit) Sources() []rule.Product {
	switch u.spec.Variant {
	case ImplOnly:
		return []rule.Product{u.Impl()}
	case IntfOnly:
		return []rule.Product{u.Intf()}
	}
	return []rule.Product{u.Intf(), u.Impl()}
}

// depUnits are the units u compiles against: direct unit deps and the
// units of direct deps built from units.
func (u *Unit) depUnits() []*Unit {
	var out []*Unit
	for _, d := range u.deps {
		switch x := d.(type) {
		case *Unit:
			out = append(out, x)
		case HasUnits:
			out = append(out, x.Units()...)
		}
	}
	return out
}

// Rules compiles the interface to .cmi, the implementation to .cmo when
// bytecode is enabled and to .cmx/.o when native code is enabled. Outputs
// go to <build>/<dir>.
func (u *Unit) Rules(e *env.Env, r Resolved) ([]rule.Rule, error) {
	tc, err := readToolchain(e, env.KeyOcamlc, env.KeyOcamlopt)
	if err != nil {
		return nil, err
	}
	c := r.Cond(u)
	eff := r.Args(u)
	out := tc.dir(u.spec.Dir)
	base := path.Join(out, u.name)

	var depCmis, depCmxs []rule.Product
	dirs := []string{out}
	for _, d := range u.depUnits() {
		ps := r.Products(d)
		depCmis = append(depCmis, rule.WithExt(ps, "cmi")...)
		if d.Visibility() != Opaque {
			depCmxs = append(depCmxs, rule.WithExt(ps, "cmx")...)
		}
		dirs = append(dirs, tc.dir(d.Dir()))
	}
	inc := includeFlags(dirs)
	var opaque []string
	if u.spec.Visibility == Opaque {
		opaque = []string{"-opaque"}
	}

	cmi := rule.File(base+".cmi", c)
	cmo := rule.File(base+".cmo", c)
	cmx := rule.File(base+".cmx", c)
	obj := rule.File(base+".o", c)
	compile := func(ctx args.Context, prog string, dst, src rule.Product) rule.Cmd {
		pre := append([]string{"-c"}, opaque...)
		post := append(append([]string(nil), inc...), "-o", dst.Target(), src.Target())
		return command(ctx, prog, pre, eff, post...)
	}

	var rules []rule.Rule
	if u.spec.Variant != ImplOnly {
		rules = append(rules, rule.New(args.CompileByte,
			joinProducts([]rule.Product{u.Intf()}, depCmis),
			[]rule.Product{cmi},
			compile(args.CompileByte, tc.prog(env.KeyOcamlc), cmi, u.Intf())))
	}
	if u.spec.Variant == IntfOnly {
		return rules, nil
	}

	// An implementation without interface gets its .cmi from whichever
	// compiler runs: ocamlc when bytecode is on or nothing else is,
	// ocamlopt otherwise.
	implOnly := u.spec.Variant == ImplOnly
	cmiFromByte := implOnly && (tc.byte || !tc.native)
	ownCmi := []rule.Product{cmi}
	switch {
	case cmiFromByte:
		rules = append(rules, rule.New(args.CompileByte,
			joinProducts([]rule.Product{u.Impl()}, depCmis),
			[]rule.Product{cmi, cmo},
			compile(args.CompileByte, tc.prog(env.KeyOcamlc), cmo, u.Impl())))
	case tc.byte && !implOnly:
		rules = append(rules, rule.New(args.CompileByte,
			joinProducts([]rule.Product{u.Impl()}, ownCmi, depCmis),
			[]rule.Product{cmo},
			compile(args.CompileByte, tc.prog(env.KeyOcamlc), cmo, u.Impl())))
	}

	if tc.native {
		in := joinProducts([]rule.Product{u.Impl()}, ownCmi, depCmis, depCmxs)
		outs := []rule.Product{cmx, obj}
		if implOnly && !cmiFromByte {
			in = joinProducts([]rule.Product{u.Impl()}, depCmis, depCmxs)
			outs = []rule.Product{cmi, cmx, obj}
		}
		rules = append(rules, rule.New(args.CompileNative, in, outs,
			compile(args.CompileNative, tc.prog(env.KeyOcamlopt), cmx, u.Impl())))
	}
	return rules, nil
}
