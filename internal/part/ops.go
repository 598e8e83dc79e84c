package part

import (
	"fmt"
	"strings"
)

// ID is the identity of p: "kind.name".
func ID(p Part) string {
	return p.Kind().String() + "." + p.Name()
}

// Equal compares parts by kind and name only.
func Equal(a, b Part) bool {
	return a.Kind() == b.Kind() && a.Name() == b.Name()
}

// Compare orders parts by kind, then name.
func Compare(a, b Part) int {
	if a.Kind() != b.Kind() {
		if a.Kind() < b.Kind() {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Name(), b.Name())
}

// KindError reports a part used as a kind it is not.
type KindError struct {
	Part string
	Want Kind
	Got  Kind
}

// Error implements the error interface for KindError.
func (e *KindError) Error() string {
	return fmt.Sprintf("part %s: expected kind %s, got %s", e.Part, e.Want, e.Got)
}

// Coerce checks that p can be used as kind k. Every part widens to
// KindBase; any other mismatch is a *KindError.
func Coerce(k Kind, p Part) (Part, error) {
	if k == KindBase || p.Kind() == k {
		return p, nil
	}
	return nil, &KindError{Part: ID(p), Want: k, Got: p.Kind()}
}

// CoerceIf is Coerce reporting failure as false.
func CoerceIf(k Kind, p Part) (Part, bool) {
	q, err := Coerce(k, p)
	return q, err == nil
}

// As downcasts p to its concrete kind type.
func As[T Part](p Part) (T, error) {
	t, ok := p.(T)
	if !ok {
		var zero T
		return zero, &KindError{Part: ID(p), Want: kindOf(zero), Got: p.Kind()}
	}
	return t, nil
}

// ToSet removes parts with an already seen identity, keeping the first
// occurrence.
func ToSet(ps []Part) []Part {
	seen := make(map[string]bool, len(ps))
	out := make([]Part, 0, len(ps))
	for _, p := range ps {
		id := ID(p)
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, p)
	}
	return out
}

// KeepKind keeps the parts of kind k.
func KeepKind(k Kind, ps []Part) []Part {
	return KeepKinds([]Kind{k}, ps)
}

// KeepKinds keeps the parts whose kind is in ks.
func KeepKinds(ks []Kind, ps []Part) []Part {
	var out []Part
	for _, p := range ps {
		for _, k := range ks {
			if p.Kind() == k {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// KeepMap projects ps through f, dropping parts f rejects.
func KeepMap[T any](ps []Part, f func(Part) (T, bool)) []T {
	var out []T
	for _, p := range ps {
		if v, ok := f(p); ok {
			out = append(out, v)
		}
	}
	return out
}

// Keep keeps the parts of concrete type T.
func Keep[T Part](ps []Part) []T {
	return KeepMap(ps, func(p Part) (T, bool) {
		t, ok := p.(T)
		return t, ok
	})
}

func kindOf(p Part) Kind {
	switch p.(type) {
	case *Unit:
		return KindUnit
	case *Lib:
		return KindLib
	case *Bin:
		return KindBin
	case *Pkg:
		return KindPkg
	case *Run:
		return KindRun
	case *Doc:
		return KindDoc
	case *Dir:
		return KindDir
	case *Silo:
		return KindSilo
	case *Custom:
		return KindCustom
	}
	return KindBase
}
