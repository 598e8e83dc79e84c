package value

import (
	"fmt"
	"sort"
)

// node is one vertex of a value's expression tree.
type node interface {
	eval(s *evalState) (any, error)
	deps(acc map[string]AnyKey)
	String() string
}

// evalState carries the configuration and the keys whose defaults are being
// evaluated, so cyclic defaults surface as errors instead of recursing forever.
type evalState struct {
	cfg    *Configuration
	active map[string]bool
}

// Value is a computation of a T over configuration keys. The zero Value
// evaluates to the zero T and depends on nothing.
type Value[T any] struct {
	n node
}

// IsZero reports whether v is the zero Value.
func (v Value[T]) IsZero() bool { return v.n == nil }

// String renders the expression tree, e.g. "(fn $native)".
func (v Value[T]) String() string {
	if v.n == nil {
		return fmt.Sprintf("%v", *new(T))
	}
	return v.n.String()
}

type constNode struct{ v any }

func (n constNode) eval(*evalState) (any, error) { return n.v, nil }
func (n constNode) deps(map[string]AnyKey)       {}
func (n constNode) String() string {
	switch n.v.(type) {
	case string, bool, int, []string:
		return fmt.Sprintf("%v", n.v)
	}
	return "<const>"
}

type lookupNode struct{ key AnyKey }

func (n lookupNode) eval(s *evalState) (any, error) {
	name := n.key.Name()
	b, ok := s.cfg.bindings[name]
	if !ok {
		return nil, &KeyError{
			Name:       name,
			Msg:        "not in configuration",
			Suggestion: Suggest(name, s.cfg.names()),
		}
	}
	if got, want := b.key.TypeName(), n.key.TypeName(); got != want {
		return nil, &KeyError{Name: name, Msg: fmt.Sprintf("bound as %s, read as %s", got, want)}
	}
	if b.set {
		return b.val, nil
	}
	if s.active[name] {
		return nil, &KeyError{Name: name, Msg: "default value depends on itself"}
	}
	s.active[name] = true
	defer delete(s.active, name)
	return b.key.defaultNode().eval(s)
}

func (n lookupNode) deps(acc map[string]AnyKey) {
	name := n.key.Name()
	if _, seen := acc[name]; seen {
		return
	}
	acc[name] = n.key
	n.key.defaultNode().deps(acc)
}

func (n lookupNode) String() string { return "$" + n.key.Name() }

type applyNode struct {
	f, x node
	call func(f, x any) (any, error)
}

func (n applyNode) eval(s *evalState) (any, error) {
	f, err := n.f.eval(s)
	if err != nil {
		return nil, err
	}
	x, err := n.x.eval(s)
	if err != nil {
		return nil, err
	}
	return n.call(f, x)
}

func (n applyNode) deps(acc map[string]AnyKey) {
	n.f.deps(acc)
	n.x.deps(acc)
}

func (n applyNode) String() string { return "(" + n.f.String() + " " + n.x.String() + ")" }

// Const returns a value that ignores the configuration.
func Const[T any](v T) Value[T] {
	return Value[T]{n: constNode{v: v}}
}

// Lookup returns the value bound to k, or k's default when k is unbound.
func Lookup[T any](k *Key[T]) Value[T] {
	return Value[T]{n: lookupNode{key: k}}
}

// App applies the function computed by f to the value computed by x.
func App[A, B any](f Value[func(A) B], x Value[A]) Value[B] {
	return Value[B]{n: applyNode{
		f: orZero(f.n, func(a A) B { return *new(B) }),
		x: orZero(x.n, *new(A)),
		call: func(f, x any) (any, error) {
			fn, ok := f.(func(A) B)
			if !ok {
				return nil, fmt.Errorf("cannot apply %T", f)
			}
			var a A
			if x != nil {
				if a, ok = x.(A); !ok {
					return nil, fmt.Errorf("argument of type %T where %T is expected", x, a)
				}
			}
			return fn(a), nil
		},
	}}
}

// Map is App(Const(fn), x).
func Map[A, B any](fn func(A) B, x Value[A]) Value[B] {
	return App(Const(fn), x)
}

// Map2 lifts a binary function; it is built from App and Const only.
func Map2[A, B, C any](fn func(A, B) C, a Value[A], b Value[B]) Value[C] {
	curried := func(x A) func(B) C {
		return func(y B) C { return fn(x, y) }
	}
	return App(App(Const(curried), a), b)
}

func orZero(n node, zero any) node {
	if n == nil {
		return constNode{v: zero}
	}
	return n
}

// Eval computes v against c. Looking up a key that c does not hold is a
// *KeyError; there is no panic path.
func Eval[T any](v Value[T], c *Configuration) (T, error) {
	var zero T
	if v.n == nil {
		return zero, nil
	}
	if c == nil {
		c = Empty()
	}
	out, err := v.n.eval(&evalState{cfg: c, active: make(map[string]bool)})
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}
	t, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("value %s evaluated to %T, want %T", v, out, zero)
	}
	return t, nil
}

// Deps returns the sorted names of every key v may read, including the keys
// read by the defaults of those keys. It is computed from the tree, never by
// evaluation, and may over-approximate.
func Deps[T any](v Value[T]) []string {
	acc := depKeys(v.n)
	names := make([]string, 0, len(acc))
	for name := range acc {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DepsConfig returns the configuration slice v depends on: its keys, all
// unbound. Use Configuration.Subset to cut a concrete configuration down to it.
func DepsConfig[T any](v Value[T]) *Configuration {
	c := Empty()
	for name, k := range depKeys(v.n) {
		c.bindings[name] = binding{key: k}
	}
	return c
}

func depKeys(n node) map[string]AnyKey {
	acc := make(map[string]AnyKey)
	if n != nil {
		n.deps(acc)
	}
	return acc
}
