package cond

import (
	"sort"
	"strings"
)

// Op is the connective at the root of a condition.
type Op uint8

const (
	OpTrue Op = iota
	OpFalse
	OpAtom
	OpNot
	OpAnd
	OpOr
)

// Cond is an immutable boolean expression over atoms. The zero Cond is true.
type Cond struct {
	op   Op
	atom *Atom
	args []Cond
}

// Table assigns truth values to atom names. Atoms it omits take their
// default.
type Table map[string]bool

// With returns a copy of t with name bound to v.
func (t Table) With(name string, v bool) Table {
	out := make(Table, len(t)+1)
	for k, b := range t {
		out[k] = b
	}
	out[name] = v
	return out
}

// True returns the constant true condition.
func True() Cond { return Cond{op: OpTrue} }

// False returns the constant false condition.
func False() Cond { return Cond{op: OpFalse} }

// Of returns the condition "a holds".
func Of(a *Atom) Cond { return Cond{op: OpAtom, atom: a} }

// Op returns the root connective.
func (c Cond) Op() Op { return c.op }

// IsTrue reports whether c is syntactically the constant true.
func (c Cond) IsTrue() bool { return c.op == OpTrue }

// IsFalse reports whether c is syntactically the constant false.
func (c Cond) IsFalse() bool { return c.op == OpFalse }

// Not negates c. Constants fold and double negations cancel.
func Not(c Cond) Cond {
	switch c.op {
	case OpTrue:
		return False()
	case OpFalse:
		return True()
	case OpNot:
		return c.args[0]
	}
	return Cond{op: OpNot, args: []Cond{c}}
}

// And conjoins cs. True operands are dropped, a false operand makes the
// result false, nested conjunctions are flattened and repeated operands
// kept once.
func And(cs ...Cond) Cond {
	return junction(OpAnd, OpTrue, OpFalse, cs)
}

// Or disjoins cs, dually to And.
func Or(cs ...Cond) Cond {
	return junction(OpOr, OpFalse, OpTrue, cs)
}

func junction(op, unit, absorb Op, cs []Cond) Cond {
	var args []Cond
	for _, c := range cs {
		switch c.op {
		case unit:
			continue
		case absorb:
			return Cond{op: absorb}
		case op:
			for _, sub := range c.args {
				args = appendNew(args, sub)
			}
		default:
			args = appendNew(args, c)
		}
	}
	switch len(args) {
	case 0:
		return Cond{op: unit}
	case 1:
		return args[0]
	}
	return Cond{op: op, args: args}
}

func appendNew(cs []Cond, c Cond) []Cond {
	for _, have := range cs {
		if Equal(have, c) {
			return cs
		}
	}
	return append(cs, c)
}

// Eval evaluates c against t, short-circuiting conjunctions and
// disjunctions.
func Eval(t Table, c Cond) bool {
	switch c.op {
	case OpTrue:
		return true
	case OpFalse:
		return false
	case OpAtom:
		if v, ok := t[c.atom.name]; ok {
			return v
		}
		return c.atom.def
	case OpNot:
		return !Eval(t, c.args[0])
	case OpAnd:
		for _, a := range c.args {
			if !Eval(t, a) {
				return false
			}
		}
		return true
	case OpOr:
		for _, a := range c.args {
			if Eval(t, a) {
				return true
			}
		}
		return false
	}
	return false
}

// Atoms returns the atoms appearing in c, unique and sorted by name.
func Atoms(cs ...Cond) []*Atom {
	seen := make(map[string]*Atom)
	var walk func(Cond)
	walk = func(c Cond) {
		if c.op == OpAtom {
			seen[c.atom.name] = c.atom
		}
		for _, a := range c.args {
			walk(a)
		}
	}
	for _, c := range cs {
		walk(c)
	}
	out := make([]*Atom, 0, len(seen))
	for _, a := range seen {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Equal reports structural equality. Atoms compare by name.
func Equal(a, b Cond) bool {
	if a.op != b.op || len(a.args) != len(b.args) {
		return false
	}
	if a.op == OpAtom && a.atom.name != b.atom.name {
		return false
	}
	for i := range a.args {
		if !Equal(a.args[i], b.args[i]) {
			return false
		}
	}
	return true
}

// String renders c with HCL-style operators, e.g. "native && !debug".
func (c Cond) String() string {
	var sb strings.Builder
	c.write(&sb, 0)
	return sb.String()
}

// precedence: or < and < not/atom.
func (c Cond) write(sb *strings.Builder, outer int) {
	switch c.op {
	case OpTrue:
		sb.WriteString("true")
	case OpFalse:
		sb.WriteString("false")
	case OpAtom:
		sb.WriteString(c.atom.name)
	case OpNot:
		sb.WriteByte('!')
		c.args[0].write(sb, 3)
	case OpAnd, OpOr:
		prec, sep := 2, " && "
		if c.op == OpOr {
			prec, sep = 1, " || "
		}
		if outer > prec {
			sb.WriteByte('(')
		}
		for i, a := range c.args {
			if i > 0 {
				sb.WriteString(sep)
			}
			a.write(sb, prec)
		}
		if outer > prec {
			sb.WriteByte(')')
		}
	}
}
