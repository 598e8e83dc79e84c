package engine

import (
	"fmt"
	"strings"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/rule"
)

// PartResult is what a present part derived.
type PartResult struct {
	Part     part.Part
	ID       string
	Cond     cond.Cond
	Args     args.Args
	Rules    []rule.Rule
	Products []rule.Product
}

// Plan is the outcome of Evaluate. Parts and Rules are in topological
// order: every rule comes after the rules producing its inputs. A rule
// lists only the outputs present in the plan's Products.
type Plan struct {
	Project string
	Version string
	// Static plans keep every part and rule that is not unconditionally
	// false, so emitters must guard them with their conditions.
	Static   bool
	Parts    []*PartResult
	Rules    []rule.Rule
	Products []rule.Product
	// Atoms are the atoms the derived conditions mention, sorted by name.
	Atoms []*cond.Atom
	// Table is the truth table of the environment.
	Table cond.Table
	// Absent lists the IDs of parts whose condition does not hold.
	Absent []string
}

// Part returns the result for the part with the given ID.
func (p *Plan) Part(id string) (*PartResult, bool) {
	for _, r := range p.Parts {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Summary renders a one-line description of a plan for logs and tests.
func (p *Plan) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d parts, %d rules, %d products", p.Project, len(p.Parts), len(p.Rules), len(p.Products))
	if len(p.Absent) > 0 {
		fmt.Fprintf(&sb, " (absent: %s)", strings.Join(p.Absent, ", "))
	}
	return sb.String()
}
