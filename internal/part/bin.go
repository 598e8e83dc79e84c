package part

import (
	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/rule"
	"github.com/vk/partgrid/internal/value"
)

// BinSpec selects the executable formats. Zero Byte and Native default to
// the byte and native keys, a zero Js to the js key. Byte and Js need the
// byte key and Native the native key, since units only compile to what
// those keys enable.
type BinSpec struct {
	Byte   value.Value[bool]
	Native value.Value[bool]
	Js     value.Value[bool]
}

// Bin is an executable linked from units, the libraries it transitively
// depends on and their packages.
type Bin struct {
	meta
	spec BinSpec
}

// NewBin creates an executable.
func NewBin(name string, spec BinSpec, opts ...Option) *Bin {
	if spec.Byte.IsZero() {
		spec.Byte = value.Lookup(env.KeyByte)
	}
	if spec.Native.IsZero() {
		spec.Native = value.Lookup(env.KeyNative)
	}
	if spec.Js.IsZero() {
		spec.Js = value.Lookup(env.KeyJs)
	}
	return &Bin{meta: newMeta(KindBin, name, opts), spec: spec}
}

func (b *Bin) Spec() BinSpec { return b.spec }

// Units returns the unit dependencies in declaration order.
func (b *Bin) Units() []*Unit { return Keep[*Unit](b.deps) }

// Packages returns the direct package dependencies.
func (b *Bin) Packages() []*Pkg { return Keep[*Pkg](b.deps) }

// Libs returns every library b transitively depends on, dependencies
// first, which is link order.
func (b *Bin) Libs() ([]*Lib, error) {
	all, err := DepClosure(b)
	if err != nil {
		return nil, err
	}
	return Keep[*Lib](all), nil
}

// Executables returns the byte and native executable paths.
func (b *Bin) Executables(e *env.Env) (byteExe, nativeExe string, err error) {
	dir, err := e.BuildDir()
	if err != nil {
		return "", "", err
	}
	tc := &toolchain{build: dir}
	return tc.dir(b.name + ".byte"), tc.dir(b.name + ".native"), nil
}

// Rules links <name>.byte from .cma and .cmo files, <name>.native from
// .cmxa and .cmx files and, when js is enabled, <name>.js from the bytecode
// executable.
func (b *Bin) Rules(e *env.Env, r Resolved) ([]rule.Rule, error) {
	tc, err := readToolchain(e, env.KeyOcamlc, env.KeyOcamlopt, env.KeyJsOfOcaml)
	if err != nil {
		return nil, err
	}
	byteKey, nativeKey := value.Lookup(env.KeyByte), value.Lookup(env.KeyNative)
	flags := map[string]value.Value[bool]{
		"byte":   value.Map2(and, b.spec.Byte, byteKey),
		"native": value.Map2(and, b.spec.Native, nativeKey),
		"js":     value.Map2(and, b.spec.Js, byteKey),
	}
	on := make(map[string]bool, len(flags))
	for name, v := range flags {
		if on[name], err = env.Get(e, v); err != nil {
			return nil, err
		}
	}
	libs, err := b.Libs()
	if err != nil {
		return nil, err
	}

	c := r.Cond(b)
	eff := r.Args(b)

	var byteIn, nativeIn []rule.Product
	for _, l := range libs {
		ps := r.Products(l)
		byteIn = append(byteIn, rule.WithExt(ps, "cma")...)
		nativeIn = append(nativeIn, rule.WithExt(ps, "cmxa")...)
	}
	for _, u := range b.Units() {
		ps := r.Products(u)
		byteIn = append(byteIn, rule.WithExt(ps, "cmo")...)
		nativeIn = append(nativeIn, rule.WithExt(ps, "cmx")...)
	}
	byteExe, nativeExe, err := b.Executables(e)
	if err != nil {
		return nil, err
	}

	var rules []rule.Rule
	link := func(ctx args.Context, prog string, in []rule.Product, exe rule.Product) rule.Rule {
		return rule.New(ctx, in, []rule.Product{exe},
			command(ctx, prog, nil, eff, append([]string{"-o", exe.Target()}, targets(in)...)...))
	}
	if on["byte"] || on["js"] {
		exe := rule.File(byteExe, c)
		rules = append(rules, link(args.LinkByte, tc.prog(env.KeyOcamlc), byteIn, exe))

		if on["js"] {
			js := rule.File(tc.dir(b.name+".js"), c)
			rules = append(rules, rule.New(args.LinkJs, []rule.Product{exe}, []rule.Product{js},
				command(args.LinkJs, tc.prog(env.KeyJsOfOcaml), nil, eff, "-o", js.Target(), exe.Target())))
		}
	}
	if on["native"] {
		rules = append(rules, link(args.LinkNative, tc.prog(env.KeyOcamlopt), nativeIn, rule.File(nativeExe, c)))
	}
	return rules, nil
}
