package cond

import (
	"sort"
	"strings"
)

// MaxExactAtoms bounds the truth-table enumeration ToCNF uses to recognise
// tautologies and contradictions that survive syntactic simplification.
const MaxExactAtoms = 16

// Literal is a possibly negated atom.
type Literal struct {
	Atom    *Atom
	Negated bool
}

func (l Literal) String() string {
	if l.Negated {
		return "!" + l.Atom.name
	}
	return l.Atom.name
}

func (l Literal) cond() Cond {
	if l.Negated {
		return Not(Of(l.Atom))
	}
	return Of(l.Atom)
}

// Clause is a disjunction of literals. The empty clause is false.
type Clause []Literal

func (cl Clause) String() string {
	parts := make([]string, len(cl))
	for i, l := range cl {
		parts[i] = l.String()
	}
	return strings.Join(parts, " || ")
}

func (cl Clause) key() string {
	return cl.String()
}

// ToCNF rewrites c as True, False or a conjunction of disjunctions of
// literals. The conversion pushes negations to the atoms and distributes
// disjunction over conjunction without introducing fresh variables, so the
// number of clauses is exponential in the worst case. Conditions built from
// part declarations stay small; callers feeding generated conditions should
// expect that cost.
func ToCNF(c Cond) Cond {
	clauses := Clauses(c)
	switch {
	case len(clauses) == 0:
		return True()
	case len(clauses) == 1 && len(clauses[0]) == 0:
		return False()
	}
	conj := make([]Cond, len(clauses))
	for i, cl := range clauses {
		disj := make([]Cond, len(cl))
		for j, l := range cl {
			disj[j] = l.cond()
		}
		conj[i] = Or(disj...)
	}
	return And(conj...)
}

// Clauses returns the CNF of c as a clause list. A nil result means true;
// a single empty clause means false.
func Clauses(c Cond) []Clause {
	clauses := simplify(distribute(nnf(c, false)))
	if len(clauses) == 0 || (len(clauses) == 1 && len(clauses[0]) == 0) {
		return clauses
	}

	atoms := Atoms(c)
	if len(atoms) <= MaxExactAtoms {
		switch constant(clauses, atoms) {
		case 1:
			return nil
		case -1:
			return []Clause{{}}
		}
	}
	return clauses
}

// nnf pushes negation down to atoms.
func nnf(c Cond, neg bool) Cond {
	switch c.op {
	case OpTrue, OpFalse:
		if neg {
			return Not(c)
		}
		return c
	case OpAtom:
		if neg {
			return Cond{op: OpNot, args: []Cond{c}}
		}
		return c
	case OpNot:
		return nnf(c.args[0], !neg)
	}

	args := make([]Cond, len(c.args))
	for i, a := range c.args {
		args[i] = nnf(a, neg)
	}
	isAnd := c.op == OpAnd
	if neg {
		isAnd = !isAnd
	}
	if isAnd {
		return And(args...)
	}
	return Or(args...)
}

func distribute(c Cond) []Clause {
	switch c.op {
	case OpTrue:
		return nil
	case OpFalse:
		return []Clause{{}}
	case OpAtom:
		return []Clause{{{Atom: c.atom}}}
	case OpNot:
		return []Clause{{{Atom: c.args[0].atom, Negated: true}}}
	case OpAnd:
		var out []Clause
		for _, a := range c.args {
			out = append(out, distribute(a)...)
		}
		return out
	}

	// OpOr: cartesian product of the operands' clause sets.
	acc := []Clause{{}}
	for _, a := range c.args {
		sub := distribute(a)
		next := make([]Clause, 0, len(acc)*len(sub))
		for _, x := range acc {
			for _, y := range sub {
				merged := make(Clause, 0, len(x)+len(y))
				merged = append(merged, x...)
				merged = append(merged, y...)
				next = append(next, merged)
			}
		}
		acc = next
	}
	return acc
}

// simplify sorts and deduplicates literals, drops tautological and
// subsumed clauses and collapses to false on an empty clause.
func simplify(clauses []Clause) []Clause {
	var out []Clause
	seen := make(map[string]bool)
	for _, cl := range clauses {
		norm, taut := normalize(cl)
		if taut {
			continue
		}
		if len(norm) == 0 {
			return []Clause{{}}
		}
		k := norm.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, norm)
	}

	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) < len(out[j]) })
	kept := out[:0]
	for _, cl := range out {
		subsumed := false
		for _, k := range kept {
			if subsumes(k, cl) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			kept = append(kept, cl)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if len(kept[i]) != len(kept[j]) {
			return len(kept[i]) < len(kept[j])
		}
		return kept[i].key() < kept[j].key()
	})
	return kept
}

func normalize(cl Clause) (Clause, bool) {
	sorted := make(Clause, len(cl))
	copy(sorted, cl)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Atom.name != sorted[j].Atom.name {
			return sorted[i].Atom.name < sorted[j].Atom.name
		}
		return !sorted[i].Negated && sorted[j].Negated
	})

	out := sorted[:0]
	for i, l := range sorted {
		if i > 0 {
			prev := out[len(out)-1]
			if prev.Atom.name == l.Atom.name {
				if prev.Negated != l.Negated {
					return nil, true
				}
				continue
			}
		}
		out = append(out, l)
	}
	return out, false
}

// subsumes reports whether every literal of a occurs in b.
func subsumes(a, b Clause) bool {
	if len(a) > len(b) {
		return false
	}
	for _, la := range a {
		found := false
		for _, lb := range b {
			if la.Atom.name == lb.Atom.name && la.Negated == lb.Negated {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// constant returns 1 if clauses hold under every assignment of atoms, -1 if
// under none, 0 otherwise.
func constant(clauses []Clause, atoms []*Atom) int {
	idx := make(map[string]int, len(atoms))
	for i, a := range atoms {
		idx[a.name] = i
	}
	sawTrue, sawFalse := false, false
	for mask := uint32(0); mask < 1<<len(atoms); mask++ {
		if holds(clauses, idx, mask) {
			sawTrue = true
		} else {
			sawFalse = true
		}
		if sawTrue && sawFalse {
			return 0
		}
	}
	if sawTrue {
		return 1
	}
	return -1
}

func holds(clauses []Clause, idx map[string]int, mask uint32) bool {
	for _, cl := range clauses {
		sat := false
		for _, l := range cl {
			v := mask&(1<<idx[l.Atom.name]) != 0
			if v != l.Negated {
				sat = true
				break
			}
		}
		if !sat {
			return false
		}
	}
	return true
}
