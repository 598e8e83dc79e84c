package pkglookup

import (
	"context"
	"strings"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/registry"
)

// Ocamlfind resolves findlib packages.
type Ocamlfind struct {
	Program string
	Q       Querier
}

// Lookup queries include directories and the byte and native archives of
// pkg and its dependencies.
func (o *Ocamlfind) Lookup(ctx context.Context, pkg string) (args.Args, error) {
	prog := o.Program
	if prog == "" {
		prog = "ocamlfind"
	}
	incl, err := o.Q.Query(ctx, []string{prog, "query", "-r", "-i-format", pkg})
	if err != nil {
		return args.Empty(), err
	}
	byteArch, err := o.Q.Query(ctx, []string{prog, "query", "-r", "-a-format", "-predicates", "byte", pkg})
	if err != nil {
		return args.Empty(), err
	}
	nativeArch, err := o.Q.Query(ctx, []string{prog, "query", "-r", "-a-format", "-predicates", "native", pkg})
	if err != nil {
		return args.Empty(), err
	}

	includes := strings.Fields(incl)
	t := cond.True()
	return args.Concat(
		args.ForAll(t, []args.Context{args.DepCtx, args.CompileByte, args.CompileNative, args.DocCtx}, includes...),
		args.New(t, args.LinkByte, append(append([]string(nil), includes...), strings.Fields(byteArch)...)...),
		args.New(t, args.LinkNative, append(append([]string(nil), includes...), strings.Fields(nativeArch)...)...),
	), nil
}

// PkgConfig resolves system libraries through pkg-config, passing C flags
// to the C compiler and libraries to the linker.
type PkgConfig struct {
	Program string
	Q       Querier
}

// Lookup queries --cflags and --libs for pkg.
func (p *PkgConfig) Lookup(ctx context.Context, pkg string) (args.Args, error) {
	prog := p.Program
	if prog == "" {
		prog = "pkg-config"
	}
	cflags, err := p.Q.Query(ctx, []string{prog, "--cflags", pkg})
	if err != nil {
		return args.Empty(), err
	}
	libs, err := p.Q.Query(ctx, []string{prog, "--libs", pkg})
	if err != nil {
		return args.Empty(), err
	}

	t := cond.True()
	cc := prefixEach("-ccopt", strings.Fields(cflags))
	ld := prefixEach("-cclib", strings.Fields(libs))
	return args.Concat(
		args.ForAll(t, []args.Context{args.CompileByte, args.CompileNative}, cc...),
		args.ForAll(t, []args.Context{args.LinkByte, args.LinkNative, args.ArchiveByte, args.ArchiveNative}, ld...),
	), nil
}

func prefixEach(flag string, xs []string) []string {
	out := make([]string, 0, 2*len(xs))
	for _, x := range xs {
		out = append(out, flag, x)
	}
	return out
}

// Func adapts a function to a lookup mechanism, for fully custom lookups.
type Func func(ctx context.Context, pkg string) (args.Args, error)

// Lookup implements env.PackageLookup.
func (f Func) Lookup(ctx context.Context, pkg string) (args.Args, error) { return f(ctx, pkg) }

// Module registers the ocamlfind and pkg-config mechanisms, sharing one
// query cache, plus any custom mechanisms.
type Module struct {
	Cache     *Cache
	Ocamlfind string
	PkgConfig string
	Custom    map[string]Func
}

// Register implements registry.Module.
func (m Module) Register(r *registry.Registry) error {
	if err := r.RegisterMechanism(part.LookupOcamlfind, &Ocamlfind{Program: m.Ocamlfind, Q: m.Cache}); err != nil {
		return err
	}
	if err := r.RegisterMechanism(part.LookupPkgConfig, &PkgConfig{Program: m.PkgConfig, Q: m.Cache}); err != nil {
		return err
	}
	for kind, f := range m.Custom {
		if err := r.RegisterMechanism(kind, f); err != nil {
			return err
		}
	}
	return nil
}
