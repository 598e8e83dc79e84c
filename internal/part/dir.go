package part

import (
	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/rule"
)

// DirCtx is the context of directory copy rules.
var DirCtx = args.Custom("dir")

// DirSpec filters the gathered products.
type DirSpec struct {
	// Exts keeps products with these extensions; empty keeps every file.
	Exts []string
}

// Dir gathers file products of its dependencies into <build>/<name>/.
type Dir struct {
	meta
	spec DirSpec
}

// NewDir creates a generated directory part.
func NewDir(name string, spec DirSpec, opts ...Option) *Dir {
	return &Dir{meta: newMeta(KindDir, name, opts), spec: spec}
}

// Rules copies each selected product with its own rule, so each copy
// inherits the condition of its source.
func (d *Dir) Rules(e *env.Env, r Resolved) ([]rule.Rule, error) {
	tc, err := readToolchain(e)
	if err != nil {
		return nil, err
	}
	c := r.Cond(d)
	outDir := tc.dir(d.name)

	var rules []rule.Rule
	for _, dep := range d.deps {
		ps := rule.Files(r.Products(dep))
		if len(d.spec.Exts) > 0 {
			ps = rule.WithExt(ps, d.spec.Exts...)
		}
		for _, p := range ps {
			dst := rule.File(outDir+"/"+p.Base(), c)
			rules = append(rules, rule.New(DirCtx, []rule.Product{p}, []rule.Product{dst},
				command(DirCtx, "cp", nil, args.Empty(), p.Target(), dst.Target())))
		}
	}
	return rules, nil
}
