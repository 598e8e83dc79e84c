package emit

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/engine"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/rule"
)

type planDoc struct {
	Project string    `yaml:"project"`
	Version string    `yaml:"version,omitempty"`
	Static  bool      `yaml:"static"`
	Atoms   []atomDoc `yaml:"atoms,omitempty"`
	Parts   []partDoc `yaml:"parts"`
	Rules   []ruleDoc `yaml:"rules"`
	Absent  []string  `yaml:"absent,omitempty"`
}

type atomDoc struct {
	Name    string `yaml:"name"`
	Default bool   `yaml:"default"`
	Value   bool   `yaml:"value"`
	Doc     string `yaml:"doc,omitempty"`
}

type partDoc struct {
	ID       string              `yaml:"id"`
	Cond     string              `yaml:"cond"`
	Deps     []string            `yaml:"deps,omitempty"`
	Args     map[string][]argDoc `yaml:"args,omitempty"`
	Products []string            `yaml:"products,omitempty"`
}

type argDoc struct {
	Cond string   `yaml:"cond,omitempty"`
	Args []string `yaml:"args,flow"`
}

type ruleDoc struct {
	Context  string     `yaml:"context"`
	Cond     string     `yaml:"cond"`
	Inputs   []string   `yaml:"inputs,omitempty"`
	Outputs  []string   `yaml:"outputs"`
	Commands [][]string `yaml:"commands,omitempty,flow"`
}

// YAML dumps p. Conditions are printed as expressions; commands are
// resolved against the plan's truth table.
func YAML(w io.Writer, p *engine.Plan) error {
	doc := planDoc{
		Project: p.Project,
		Version: p.Version,
		Static:  p.Static,
		Absent:  p.Absent,
		Parts:   []partDoc{},
		Rules:   []ruleDoc{},
	}
	for _, a := range p.Atoms {
		doc.Atoms = append(doc.Atoms, atomDoc{
			Name:    a.Name(),
			Default: a.Default(),
			Value:   cond.Eval(p.Table, cond.Of(a)),
			Doc:     a.Doc(),
		})
	}
	for _, res := range p.Parts {
		doc.Parts = append(doc.Parts, partDoc{
			ID:       res.ID,
			Cond:     res.Cond.String(),
			Deps:     depIDs(res.Part),
			Args:     argDocs(res.Args),
			Products: keys(res.Products),
		})
	}
	for _, r := range p.Rules {
		doc.Rules = append(doc.Rules, ruleDoc{
			Context:  r.Context.String(),
			Cond:     r.Cond().String(),
			Inputs:   targetsOf(r.Inputs),
			Outputs:  targetsOf(r.Outputs),
			Commands: r.Commands(p.Table),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func depIDs(p part.Part) []string {
	var out []string
	for _, d := range p.Deps() {
		out = append(out, part.ID(d))
	}
	return out
}

func argDocs(a args.Args) map[string][]argDoc {
	ctxs := args.Contexts(a)
	if len(ctxs) == 0 {
		return nil
	}
	out := make(map[string][]argDoc, len(ctxs))
	for _, ctx := range ctxs {
		for _, e := range args.Get(ctx, a) {
			d := argDoc{Args: e.Args}
			if !e.Cond.IsTrue() {
				d.Cond = e.Cond.String()
			}
			out[ctx.String()] = append(out[ctx.String()], d)
		}
	}
	return out
}

func keys(ps []rule.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}

func targetsOf(ps []rule.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Target()
	}
	return out
}
