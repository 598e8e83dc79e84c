package part

import (
	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/rule"
)

// Doc is a documentation set for the non-hidden units of its unit and lib
// dependencies. It only exists when the doc atom holds.
type Doc struct {
	meta
}

// NewDoc creates a documentation part.
func NewDoc(name string, opts ...Option) *Doc {
	m := newMeta(KindDoc, name, opts)
	m.cond = cond.And(m.cond, cond.Of(env.AtomDoc))
	return &Doc{meta: m}
}

// Units returns the documented units, unit deps first, then each lib's
// units, without duplicates.
func (d *Doc) Units() []*Unit {
	var ps []Part
	for _, dep := range d.deps {
		switch x := dep.(type) {
		case *Unit:
			ps = append(ps, x)
		case *Lib:
			for _, u := range x.Units() {
				ps = append(ps, u)
			}
		}
	}
	var out []*Unit
	for _, u := range Keep[*Unit](ToSet(ps)) {
		if u.Visibility() != Hidden {
			out = append(out, u)
		}
	}
	return out
}

// Rules generates <build>/doc-<name>/index.html from the units' sources,
// after their interfaces are compiled.
func (d *Doc) Rules(e *env.Env, r Resolved) ([]rule.Rule, error) {
	tc, err := readToolchain(e, env.KeyOcamldoc)
	if err != nil {
		return nil, err
	}
	c := r.Cond(d)
	outDir := tc.dir("doc-" + d.name)

	var srcs, cmis []rule.Product
	var dirs []string
	for _, u := range d.Units() {
		srcs = append(srcs, u.Sources()[0])
		cmis = append(cmis, rule.WithExt(r.Products(u), "cmi")...)
		dirs = append(dirs, tc.dir(u.Dir()))
	}
	index := rule.File(outDir+"/index.html", c)
	post := append(includeFlags(dirs), "-d", outDir)
	post = append(post, targets(srcs)...)
	cmd := command(args.DocCtx, tc.prog(env.KeyOcamldoc), []string{"-html"}, r.Args(d), post...)
	return []rule.Rule{rule.New(args.DocCtx, joinProducts(srcs, cmis), []rule.Product{index}, cmd)}, nil
}
