package hclexpr

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/partid"
	"github.com/vk/partgrid/internal/value"
)

// Reference roots.
const (
	RootAtom = "atom"
	RootKey  = "key"
)

// Scope resolves atom.<name> and key.<name> references.
type Scope struct {
	Atoms *cond.Registry
	Keys  *value.Configuration
}

func errorf(rng hcl.Range, summary, format string, a ...any) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   fmt.Sprintf(format, a...),
		Subject:  rng.Ptr(),
	}}
}

func unwrap(expr hcl.Expression) hcl.Expression {
	for {
		p, ok := expr.(*hclsyntax.ParenthesesExpr)
		if !ok {
			return expr
		}
		expr = p.Expression
	}
}

// rootAttr splits a two-step traversal root.attr.
func rootAttr(t hcl.Traversal) (root, attr string, ok bool) {
	if len(t) != 2 {
		return "", "", false
	}
	a, isAttr := t[1].(hcl.TraverseAttr)
	if !isAttr {
		return "", "", false
	}
	return t.RootName(), a.Name, true
}

// Cond translates a boolean expression over true, false, atom.<name>, !,
// && and ||.
func Cond(expr hcl.Expression, s Scope) (cond.Cond, hcl.Diagnostics) {
	switch e := unwrap(expr).(type) {
	case *hclsyntax.LiteralValueExpr:
		if e.Val.Type() != cty.Bool || e.Val.IsNull() {
			return cond.False(), errorf(e.Range(), "Invalid condition", "A condition literal must be true or false, got %s.", e.Val.Type().FriendlyName())
		}
		if e.Val.True() {
			return cond.True(), nil
		}
		return cond.False(), nil

	case *hclsyntax.ScopeTraversalExpr:
		root, name, ok := rootAttr(e.Traversal)
		if !ok || root != RootAtom {
			return cond.False(), errorf(e.Range(), "Invalid condition", "Conditions may only reference atoms as atom.<name>, got %s.", TraversalKey(e.Traversal))
		}
		a, found := s.Atoms.Lookup(name)
		if !found {
			detail := fmt.Sprintf("No atom named %q is declared.", name)
			if sug := value.Suggest(name, s.Atoms.Names()); sug != "" {
				detail += fmt.Sprintf(" Did you mean %q?", sug)
			}
			return cond.False(), hcl.Diagnostics{{Severity: hcl.DiagError, Summary: "Unknown atom", Detail: detail, Subject: e.Range().Ptr()}}
		}
		return cond.Of(a), nil

	case *hclsyntax.UnaryOpExpr:
		if e.Op != hclsyntax.OpLogicalNot {
			break
		}
		c, diags := Cond(e.Val, s)
		return cond.Not(c), diags

	case *hclsyntax.BinaryOpExpr:
		var join func(...cond.Cond) cond.Cond
		switch e.Op {
		case hclsyntax.OpLogicalAnd:
			join = cond.And
		case hclsyntax.OpLogicalOr:
			join = cond.Or
		default:
			return cond.False(), errorf(e.Range(), "Invalid condition", "Only !, && and || are allowed in conditions.")
		}
		l, diags := Cond(e.LHS, s)
		r, rdiags := Cond(e.RHS, s)
		return join(l, r), append(diags, rdiags...)
	}
	return cond.False(), errorf(expr.Range(), "Invalid condition", "Unsupported expression in condition; use true, false, atom.<name>, !, && and ||.")
}

// Bool translates a boolean value over true, false, key.<name> (a bool
// key), !, && and ||.
func Bool(expr hcl.Expression, s Scope) (value.Value[bool], hcl.Diagnostics) {
	switch e := unwrap(expr).(type) {
	case *hclsyntax.LiteralValueExpr:
		if e.Val.Type() == cty.Bool && !e.Val.IsNull() {
			return value.Const(e.Val.True()), nil
		}

	case *hclsyntax.ScopeTraversalExpr:
		root, name, ok := rootAttr(e.Traversal)
		if !ok || root != RootKey {
			break
		}
		k, found := s.Keys.Lookup(name)
		if !found {
			// HCL identifiers cannot hold the hyphen of names like native-dynlink.
			k, found = s.Keys.Lookup(strings.ReplaceAll(name, "_", "-"))
		}
		if !found {
			detail := fmt.Sprintf("No configuration key named %q is declared.", name)
			if sug := value.Suggest(name, keyNames(s.Keys)); sug != "" {
				detail += fmt.Sprintf(" Did you mean %q?", sug)
			}
			return value.Const(false), hcl.Diagnostics{{Severity: hcl.DiagError, Summary: "Unknown key", Detail: detail, Subject: e.Range().Ptr()}}
		}
		bk, isBool := k.(*value.Key[bool])
		if !isBool {
			return value.Const(false), errorf(e.Range(), "Invalid value", "Key %q has type %s, expected bool.", name, k.TypeName())
		}
		return value.Lookup(bk), nil

	case *hclsyntax.UnaryOpExpr:
		if e.Op != hclsyntax.OpLogicalNot {
			break
		}
		v, diags := Bool(e.Val, s)
		return value.Map(func(b bool) bool { return !b }, v), diags

	case *hclsyntax.BinaryOpExpr:
		var join func(a, b bool) bool
		switch e.Op {
		case hclsyntax.OpLogicalAnd:
			join = func(a, b bool) bool { return a && b }
		case hclsyntax.OpLogicalOr:
			join = func(a, b bool) bool { return a || b }
		default:
			return value.Const(false), errorf(e.Range(), "Invalid value", "Only !, && and || are allowed in boolean values.")
		}
		l, diags := Bool(e.LHS, s)
		r, rdiags := Bool(e.RHS, s)
		return value.Map2(join, l, r), append(diags, rdiags...)
	}
	return value.Const(false), errorf(expr.Range(), "Invalid value", "Expected true, false or key.<name>.")
}

func keyNames(c *value.Configuration) []string {
	keys := c.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.Name()
	}
	return out
}

// Parts translates a list of part references like [unit.a, lib.core].
func Parts(expr hcl.Expression) ([]partid.Address, hcl.Diagnostics) {
	exprs, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		return nil, diags
	}
	out := make([]partid.Address, 0, len(exprs))
	for _, item := range exprs {
		t, tdiags := hcl.AbsTraversalForExpr(item)
		if tdiags.HasErrors() {
			diags = append(diags, errorf(item.Range(), "Invalid part reference", "Expected a reference like lib.core.")...)
			continue
		}
		root, name, ok := rootAttr(t)
		if !ok {
			diags = append(diags, errorf(item.Range(), "Invalid part reference", "Expected a reference like lib.core, got %s.", TraversalKey(t))...)
			continue
		}
		addr, err := partid.Parse(root + "." + name)
		if err != nil {
			diags = append(diags, errorf(item.Range(), "Invalid part reference", "%s.", err)...)
			continue
		}
		out = append(out, addr)
	}
	return out, diags
}

// Strings evaluates a literal list of strings. A null value yields nil.
func Strings(expr hcl.Expression) ([]string, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() || val.IsNull() {
		return nil, diags
	}
	converted, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, errorf(expr.Range(), "Invalid value", "Expected a list of strings: %s.", err)
	}
	var out []string
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return nil, errorf(expr.Range(), "Invalid value", "Expected a list of strings: %s.", err)
	}
	return out, nil
}

// String evaluates a literal string.
func String(expr hcl.Expression) (string, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() || val.Type() != cty.String {
		return "", errorf(expr.Range(), "Invalid value", "Expected a string, got %s.", val.Type().FriendlyName())
	}
	return val.AsString(), nil
}
