package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of a project description.
type Model struct {
	Project *Project
	Atoms   []*Atom
	Keys    []*Key
	// Settings bind configuration keys, e.g. native = false.
	Settings map[string]cty.Value
	// Features override atom values, e.g. debug = true.
	Features map[string]bool
	Parts    []*Part
	// Root is the directory relative paths and source globs are resolved
	// against.
	Root string
}

// Project is the format-agnostic representation of the `project` block.
type Project struct {
	Name    string
	Version string
	Args    []*Args
	Range   hcl.Range
}

// Args is one conditional group of arguments for a context.
type Args struct {
	Context string
	Values  []string
	// Cond is nil when the group is unconditional.
	Cond  hcl.Expression
	Range hcl.Range
}

// Atom declares a condition atom.
type Atom struct {
	Name    string
	Default bool
	Doc     string
	Range   hcl.Range
}

// Key declares a configuration key.
type Key struct {
	Name    string
	Type    cty.Type
	Default *cty.Value
	Public  bool
	Doc     string
	Range   hcl.Range
}

// Part is a part declaration. Attributes hold every attribute of the
// block, unevaluated.
type Part struct {
	Kind       string
	Name       string
	Attributes map[string]hcl.Expression
	Args       []*Args
	Range      hcl.Range
}

// Address returns "kind.name".
func (p *Part) Address() string { return p.Kind + "." + p.Name }

// Attr returns the named attribute, or nil.
func (p *Part) Attr(name string) hcl.Expression {
	if p.Attributes == nil {
		return nil
	}
	return p.Attributes[name]
}
