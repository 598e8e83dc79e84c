package rule

import (
	"strings"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/cond"
)

// Cmd is one command of an action. Its arguments are the entries of Args
// in the rule's context, filtered and flattened at emission time and then
// passed through Transform.
type Cmd struct {
	Program   string
	Args      args.Args
	Transform func([]string) []string
}

// Command builds a Cmd whose raw arguments hold unconditionally in ctx.
func Command(ctx args.Context, program string, raw ...string) Cmd {
	return Cmd{Program: program, Args: args.New(cond.True(), ctx, raw...)}
}

// Entries returns the conditional argument groups of the command in ctx.
func (c Cmd) Entries(ctx args.Context) []args.Entry {
	return args.Get(ctx, c.Args)
}

// Resolve renders the argv of the command for ctx under table.
func (c Cmd) Resolve(ctx args.Context, table cond.Table) []string {
	raw := args.Flatten(c.Entries(ctx), table)
	if c.Transform != nil {
		raw = c.Transform(raw)
	}
	return append([]string{c.Program}, raw...)
}

// Action is an ordered list of commands.
type Action []Cmd

// Rule derives its outputs from its inputs by running its action. Actions
// may read only the declared inputs and write only the declared outputs;
// the engine cannot check that, so rule authors must keep to it.
type Rule struct {
	Context args.Context
	Inputs  []Product
	Outputs []Product
	Action  Action
}

// New builds a rule and guards each output with the conjunction of all
// input conditions.
func New(ctx args.Context, inputs, outputs []Product, action ...Cmd) Rule {
	in := Conds(inputs)
	outs := make([]Product, len(outputs))
	for i, o := range outputs {
		outs[i] = o.WithCond(cond.And(o.cond, in))
	}
	ins := make([]Product, len(inputs))
	copy(ins, inputs)
	return Rule{Context: ctx, Inputs: ins, Outputs: outs, Action: action}
}

// Cond holds when at least one output exists.
func (r Rule) Cond() cond.Cond {
	cs := make([]cond.Cond, len(r.Outputs))
	for i, o := range r.Outputs {
		cs[i] = o.cond
	}
	return cond.Or(cs...)
}

// Commands renders every command of the action under table.
func (r Rule) Commands(table cond.Table) [][]string {
	out := make([][]string, len(r.Action))
	for i, c := range r.Action {
		out[i] = c.Resolve(r.Context, table)
	}
	return out
}

func (r Rule) String() string {
	outs := make([]string, len(r.Outputs))
	for i, o := range r.Outputs {
		outs[i] = o.Target()
	}
	return r.Context.String() + " -> " + strings.Join(outs, " ")
}
