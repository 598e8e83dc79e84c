package part

import (
	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/rule"
	"github.com/vk/partgrid/internal/value"
)

// LibSpec selects the archive formats of a library. Zero values default to
// the byte, native and native-dynlink keys. A format is archived only when
// the byte or native key also lets units compile to it.
type LibSpec struct {
	Byte          value.Value[bool]
	Native        value.Value[bool]
	NativeDynlink value.Value[bool]
}

// Lib is a library archive built from its unit dependencies.
type Lib struct {
	meta
	spec LibSpec
}

// NewLib creates a library.
func NewLib(name string, spec LibSpec, opts ...Option) *Lib {
	if spec.Byte.IsZero() {
		spec.Byte = value.Lookup(env.KeyByte)
	}
	if spec.Native.IsZero() {
		spec.Native = value.Lookup(env.KeyNative)
	}
	if spec.NativeDynlink.IsZero() {
		spec.NativeDynlink = value.Lookup(env.KeyNativeDynlink)
	}
	return &Lib{meta: newMeta(KindLib, name, opts), spec: spec}
}

func (l *Lib) Spec() LibSpec { return l.spec }

// Units returns the unit dependencies in declaration order.
func (l *Lib) Units() []*Unit { return Keep[*Unit](l.deps) }

// Packages returns the direct package dependencies.
func (l *Lib) Packages() []*Pkg { return Keep[*Pkg](l.deps) }

// Dir is the directory holding the archives.
func (l *Lib) Dir(e *env.Env) (string, error) {
	b, err := e.BuildDir()
	if err != nil {
		return "", err
	}
	return (&toolchain{build: b}).dir("lib-" + l.name), nil
}

// Rules archives the units' .cmo files into <name>.cma and their .cmx files
// into <name>.cmxa and <name>.a, and links <name>.cmxs when dynlinkable
// native archives are enabled. Each format is emitted only when its flag
// evaluates to true.
func (l *Lib) Rules(e *env.Env, r Resolved) ([]rule.Rule, error) {
	tc, err := readToolchain(e, env.KeyOcamlc, env.KeyOcamlopt)
	if err != nil {
		return nil, err
	}
	byteOn, err := env.Get(e, value.Map2(and, l.spec.Byte, value.Lookup(env.KeyByte)))
	if err != nil {
		return nil, err
	}
	nativeOn, err := env.Get(e, value.Map2(and, l.spec.Native, value.Lookup(env.KeyNative)))
	if err != nil {
		return nil, err
	}
	dynlinkOn, err := env.Get(e, l.spec.NativeDynlink)
	if err != nil {
		return nil, err
	}

	c := r.Cond(l)
	eff := r.Args(l)
	base := tc.dir("lib-"+l.name, l.name)

	var cmos, cmxs []rule.Product
	for _, u := range l.Units() {
		ps := r.Products(u)
		cmos = append(cmos, rule.WithExt(ps, "cmo")...)
		cmxs = append(cmxs, rule.WithExt(ps, "cmx")...)
	}

	var rules []rule.Rule
	if byteOn {
		cma := rule.File(base+".cma", c)
		rules = append(rules, rule.New(args.ArchiveByte, cmos, []rule.Product{cma},
			command(args.ArchiveByte, tc.prog(env.KeyOcamlc), []string{"-a"}, eff,
				append([]string{"-o", cma.Target()}, targets(cmos)...)...)))
	}
	if nativeOn {
		cmxa := rule.File(base+".cmxa", c)
		lib := rule.File(base+".a", c)
		rules = append(rules, rule.New(args.ArchiveNative, cmxs, []rule.Product{cmxa, lib},
			command(args.ArchiveNative, tc.prog(env.KeyOcamlopt), []string{"-a"}, eff,
				append([]string{"-o", cmxa.Target()}, targets(cmxs)...)...)))

		if dynlinkOn {
			shared := rule.File(base+".cmxs", c)
			rules = append(rules, rule.New(args.ArchiveShared, []rule.Product{cmxa, lib}, []rule.Product{shared},
				command(args.ArchiveShared, tc.prog(env.KeyOcamlopt), []string{"-shared", "-linkall"}, eff,
					"-I", tc.dir("lib-"+l.name), "-o", shared.Target(), cmxa.Target())))
		}
	}
	return rules, nil
}
