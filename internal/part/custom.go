package part

import (
	"fmt"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/env"
	"github.com/vk/partgrid/internal/rule"
)

// CustomCtx is the context of custom rules.
var CustomCtx = args.Custom("custom")

// RulesFunc derives rules for a custom part.
type RulesFunc func(e *env.Env, r Resolved) ([]rule.Rule, error)

// CustomSpec is a single declared rule, or a rules function.
type CustomSpec struct {
	// Inputs are source paths relative to the project root.
	Inputs []string
	// Outputs are paths relative to the build directory.
	Outputs []string
	Command []string
	// Func, when set, replaces the declared rule.
	Func RulesFunc
}

// Custom is a part with a user-supplied rule.
type Custom struct {
	meta
	spec CustomSpec
}

// NewCustom creates a custom part.
func NewCustom(name string, spec CustomSpec, opts ...Option) *Custom {
	return &Custom{meta: newMeta(KindCustom, name, opts), spec: spec}
}

// Rules runs the rules function, or derives the declared rule whose inputs
// are the declared inputs plus every product of the dependencies.
func (cu *Custom) Rules(e *env.Env, r Resolved) ([]rule.Rule, error) {
	if cu.spec.Func != nil {
		return cu.spec.Func(e, r)
	}
	if len(cu.spec.Outputs) == 0 {
		return nil, fmt.Errorf("custom %q declares no outputs", cu.name)
	}
	tc, err := readToolchain(e)
	if err != nil {
		return nil, err
	}
	c := r.Cond(cu)

	var inputs []rule.Product
	for _, in := range cu.spec.Inputs {
		inputs = append(inputs, rule.File(in, cond.True()))
	}
	for _, d := range cu.deps {
		inputs = append(inputs, r.Products(d)...)
	}
	outputs := make([]rule.Product, len(cu.spec.Outputs))
	for i, o := range cu.spec.Outputs {
		outputs[i] = rule.File(tc.dir(o), c)
	}

	var action []rule.Cmd
	if len(cu.spec.Command) > 0 {
		action = append(action, command(CustomCtx, cu.spec.Command[0], cu.spec.Command[1:], r.Args(cu)))
	}
	return []rule.Rule{rule.New(CustomCtx, inputs, outputs, action...)}, nil
}
