package part

import (
	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/rule"
)

// Silo aggregates the products of its dependencies behind one effect.
type Silo struct {
	meta
}

// SiloCtx is the context of silo rules.
var SiloCtx = args.Custom("silo")

// NewSilo creates a silo part.
func NewSilo(name string, opts ...Option) *Silo {
	return &Silo{meta: newMeta(KindSilo, name, opts)}
}

// Rules produces the silo-<name> effect with no action.
func (s *Silo) Rules(e *env.Env, r Resolved) ([]rule.Rule, error) {
	tc, err := readToolchain(e)
	if err != nil {
		return nil, err
	}
	var inputs []rule.Product
	for _, d := range s.deps {
		inputs = append(inputs, r.Products(d)...)
	}
	effect := rule.Effect("silo-"+s.name, tc.build, r.Cond(s))
	return []rule.Rule{rule.New(SiloCtx, inputs, []rule.Product{effect})}, nil
}
