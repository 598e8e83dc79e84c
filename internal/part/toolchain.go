package part

import (
	"path"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/rule"
	"github.com/vk/partgrid/internal/value"
)

// toolchain caches the environment reads every rule function needs.
type toolchain struct {
	build  string
	byte   bool
	native bool
	progs  map[string]string
}

func readToolchain(e *env.Env, keys ...*value.Key[string]) (*toolchain, error) {
	build, err := e.BuildDir()
	if err != nil {
		return nil, err
	}
	byteOn, err := env.Get(e, value.Lookup(env.KeyByte))
	if err != nil {
		return nil, err
	}
	nativeOn, err := env.Get(e, value.Lookup(env.KeyNative))
	if err != nil {
		return nil, err
	}
	tc := &toolchain{build: build, byte: byteOn, native: nativeOn, progs: make(map[string]string)}
	for _, k := range keys {
		p, err := env.Get(e, value.Lookup(k))
		if err != nil {
			return nil, err
		}
		tc.progs[k.Name()] = p
	}
	return tc, nil
}

func (tc *toolchain) prog(k *value.Key[string]) string {
	return tc.progs[k.Name()]
}

func (tc *toolchain) dir(elem ...string) string {
	return path.Join(append([]string{tc.build}, elem...)...)
}

// command lays out program pre... <effective args> post... in ctx.
func command(ctx args.Context, program string, pre []string, eff args.Args, post ...string) rule.Cmd {
	return rule.Cmd{
		Program: program,
		Args: args.Concat(
			args.New(cond.True(), ctx, pre...),
			eff,
			args.New(cond.True(), ctx, post...),
		),
	}
}

func includeFlags(dirs []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range dirs {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, "-I", d)
	}
	return out
}

func targets(ps []rule.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Target()
	}
	return out
}

func joinProducts(pss ...[]rule.Product) []rule.Product {
	var out []rule.Product
	for _, ps := range pss {
		out = append(out, ps...)
	}
	return out
}

func and(a, b bool) bool { return a && b }
