package part

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(ps []Part) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = ID(p)
	}
	return out
}

func TestKind_Parse(t *testing.T) {
	for _, k := range append(Kinds(), KindBase) {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("library")
	assert.Error(t, err)
}

func TestIdentity(t *testing.T) {
	a1 := NewUnit("a", UnitSpec{Dir: "src"})
	a2 := NewUnit("a", UnitSpec{Dir: "other"})
	libA := NewLib("a", LibSpec{})

	assert.Equal(t, "unit.a", ID(a1))
	assert.True(t, Equal(a1, a2), "identity ignores content")
	assert.False(t, Equal(a1, libA))
	assert.Equal(t, 0, Compare(a1, a2))
	assert.Equal(t, -1, Compare(a1, libA), "units sort before libs")
	assert.Equal(t, -1, Compare(a1, NewUnit("b", UnitSpec{})))
}

func TestToSet(t *testing.T) {
	a1 := NewUnit("a", UnitSpec{})
	b := NewUnit("b", UnitSpec{})
	a2 := NewUnit("a", UnitSpec{Dir: "x"})
	lib := NewLib("a", LibSpec{})

	ps := []Part{b, a1, lib, a2, b}
	set := ToSet(ps)
	assert.Equal(t, []string{"unit.b", "unit.a", "lib.a"}, ids(set))
	assert.Same(t, a1, set[1], "first occurrence wins")
	assert.Equal(t, set, ToSet(set), "idempotent")
}

func TestKeep(t *testing.T) {
	u := NewUnit("u", UnitSpec{})
	l := NewLib("l", LibSpec{})
	p := NewPkg("unix", PkgSpec{})
	ps := []Part{u, l, p, NewUnit("v", UnitSpec{})}

	assert.Equal(t, []string{"unit.u", "unit.v"}, ids(KeepKind(KindUnit, ps)))
	assert.Equal(t, []string{"lib.l", "pkg.unix"}, ids(KeepKinds([]Kind{KindPkg, KindLib}, ps)))
	assert.Equal(t, []*Pkg{p}, Keep[*Pkg](ps))
	assert.Equal(t, []string{"u", "v"}, KeepMap(ps, func(p Part) (string, bool) {
		u, ok := p.(*Unit)
		if !ok {
			return "", false
		}
		return u.Name(), true
	}))
}

func TestCoerce(t *testing.T) {
	u := NewUnit("a", UnitSpec{})

	got, err := Coerce(KindBase, u)
	require.NoError(t, err)
	assert.Same(t, u, got.(*Unit))

	_, err = Coerce(KindUnit, u)
	require.NoError(t, err)

	_, err = Coerce(KindLib, u)
	var kerr *KindError
	require.True(t, errors.As(err, &kerr))
	assert.Equal(t, "unit.a", kerr.Part)
	assert.Equal(t, KindLib, kerr.Want)
	assert.EqualError(t, err, "part unit.a: expected kind lib, got unit")

	_, ok := CoerceIf(KindBin, u)
	assert.False(t, ok)

	lib, err := As[*Lib](u)
	assert.Nil(t, lib)
	require.True(t, errors.As(err, &kerr))
	assert.Equal(t, KindLib, kerr.Want)

	unit, err := As[*Unit](Part(u))
	require.NoError(t, err)
	assert.Same(t, u, unit)
}

func TestCapabilities(t *testing.T) {
	a := NewUnit("a", UnitSpec{})
	unix := NewPkg("unix", PkgSpec{})
	lib := NewLib("core", LibSpec{}, WithDeps(a, unix))

	var hu HasUnits = lib
	assert.Equal(t, []*Unit{a}, hu.Units())
	var hp HasPackages = lib
	assert.Equal(t, []*Pkg{unix}, hp.Packages())

	bin := NewBin("main", BinSpec{}, WithDeps(lib))
	_, isHasPackages := Part(bin).(HasPackages)
	assert.True(t, isHasPackages)
	_, pkgHasUnits := Part(unix).(HasUnits)
	assert.False(t, pkgHasUnits)
}
