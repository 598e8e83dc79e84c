package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/engine"
	"github.com/vk/partgrid/internal/rule"
)

const allVar = "ALL_TARGETS"

// Makefile renders p as a GNU make file.
func Makefile(w io.Writer, p *engine.Plan) error {
	m := &makefile{plan: p}
	m.header()
	for _, r := range p.Rules {
		m.rule(r)
	}
	m.line("all: $(" + allVar + ")")
	_, err := io.WriteString(w, m.sb.String())
	return err
}

type makefile struct {
	plan *engine.Plan
	sb   strings.Builder
}

func (m *makefile) line(s string) {
	m.sb.WriteString(s)
	m.sb.WriteByte('\n')
}

func (m *makefile) header() {
	mode := "resolved"
	if m.plan.Static {
		mode = "static"
	}
	name := m.plan.Project
	if m.plan.Version != "" {
		name += " " + m.plan.Version
	}
	m.line(fmt.Sprintf("# Generated by partgrid for %s (%s plan). Do not edit.", name, mode))
	m.line("")
	m.line(".DEFAULT_GOAL := all")
	m.line(".PHONY: all")
	m.line(allVar + " :=")
	if !m.plan.Static {
		m.line("")
		return
	}

	m.line("comma := ,")
	m.line("")
	for _, a := range m.plan.Atoms {
		if a.Doc() != "" {
			m.line("# " + a.Doc())
		}
		m.line(fmt.Sprintf("%s ?= %t", atomVar(a), cond.Eval(m.plan.Table, cond.Of(a))))
		m.line(fmt.Sprintf("NOT_%s = $(if $(filter true,$(%s)),false,true)", atomVar(a), atomVar(a)))
	}
	m.line("")
}

func (m *makefile) rule(r rule.Rule) {
	var guards []string
	if m.plan.Static {
		guards = clauseGuards(r.Cond())
	}
	for _, g := range guards {
		m.line("ifneq (" + g + ",)")
	}

	outs := make([]string, len(r.Outputs))
	var effects []string
	for i, o := range r.Outputs {
		outs[i] = o.Target()
		if !o.IsFile() {
			effects = append(effects, o.Target())
		}
	}
	ins := make([]string, len(r.Inputs))
	for i, in := range r.Inputs {
		ins[i] = in.Target()
	}

	sep := ":"
	if len(outs) > 1 {
		sep = " &:"
	}
	m.line(strings.TrimRight(strings.Join(outs, " ")+sep+" "+strings.Join(ins, " "), " "))
	for _, cmd := range r.Action {
		m.line("\t" + m.recipe(r, cmd))
	}
	if len(effects) > 0 {
		m.line(".PHONY: " + strings.Join(effects, " "))
	}
	m.line(allVar + " += " + strings.Join(outs, " "))

	for range guards {
		m.line("endif")
	}
	m.line("")
}

// recipe renders a command. Static plans keep conditional argument groups
// as $(if ...) expansions unless the command has a transform, which only
// applies to flat argument lists.
func (m *makefile) recipe(r rule.Rule, cmd rule.Cmd) string {
	if !m.plan.Static || cmd.Transform != nil {
		argv := cmd.Resolve(r.Context, m.plan.Table)
		for i, a := range argv {
			argv[i] = shellQuote(a)
		}
		return strings.Join(argv, " ")
	}

	words := []string{shellQuote(cmd.Program)}
	for _, e := range cmd.Entries(r.Context) {
		if len(e.Args) == 0 {
			continue
		}
		quoted := make([]string, len(e.Args))
		for i, a := range e.Args {
			quoted[i] = shellQuote(a)
		}
		text := strings.Join(quoted, " ")

		clauses := cond.Clauses(e.Cond)
		switch {
		case len(clauses) == 0:
			words = append(words, text)
		case len(clauses) == 1 && len(clauses[0]) == 0:
			// never holds
		default:
			words = append(words, "$(if "+condExpr(clauses)+","+strings.ReplaceAll(text, ",", "$(comma)")+")")
		}
	}
	return strings.Join(words, " ")
}

// clauseGuards renders one make expression per CNF clause of c; each is
// non-empty exactly when its clause holds.
func clauseGuards(c cond.Cond) []string {
	clauses := cond.Clauses(c)
	out := make([]string, len(clauses))
	for i, cl := range clauses {
		out[i] = clauseExpr(cl)
	}
	return out
}

func clauseExpr(cl cond.Clause) string {
	if len(cl) == 0 {
		return "$(filter true,false)"
	}
	lits := make([]string, len(cl))
	for i, l := range cl {
		if l.Negated {
			lits[i] = "$(NOT_" + atomVar(l.Atom) + ")"
		} else {
			lits[i] = "$(" + atomVar(l.Atom) + ")"
		}
	}
	return "$(filter true," + strings.Join(lits, " ") + ")"
}

func condExpr(clauses []cond.Clause) string {
	if len(clauses) == 1 {
		return clauseExpr(clauses[0])
	}
	exprs := make([]string, len(clauses))
	for i, cl := range clauses {
		exprs[i] = clauseExpr(cl)
	}
	return "$(and " + strings.Join(exprs, ",") + ")"
}

// atomVar is the make variable holding an atom's value.
func atomVar(a *cond.Atom) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, a.Name())
}

// shellQuote quotes s for a recipe line, doubling dollars for make.
func shellQuote(s string) string {
	safe := s != ""
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_+=/.,:@%^", r)) {
			safe = false
			break
		}
	}
	if !safe {
		s = "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return strings.ReplaceAll(s, "$", "$$")
}
