package part

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/partgrid/internal/dag"
)

func TestClosure_Diamond(t *testing.T) {
	// b and c both depend on a; d depends on b and c.
	a := NewUnit("a", UnitSpec{})
	b := NewUnit("b", UnitSpec{}, WithDeps(a))
	c := NewUnit("c", UnitSpec{}, WithDeps(a))
	d := NewLib("d", LibSpec{}, WithDeps(b, c))

	got, err := Closure(d)
	require.NoError(t, err)
	assert.Equal(t, []string{"unit.a", "unit.b", "unit.c", "lib.d"}, ids(got))

	again, err := Closure(d)
	require.NoError(t, err)
	assert.Equal(t, ids(got), ids(again))
}

func TestClosure_DeduplicatesByIdentity(t *testing.T) {
	a1 := NewUnit("a", UnitSpec{Dir: "one"})
	a2 := NewUnit("a", UnitSpec{Dir: "two"})
	b := NewUnit("b", UnitSpec{}, WithDeps(a1))
	c := NewUnit("c", UnitSpec{}, WithDeps(a2))

	got, err := Closure(b, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"unit.a", "unit.b", "unit.c"}, ids(got))
	assert.Equal(t, "one", got[0].(*Unit).Dir())
}

func TestClosure_Cycle(t *testing.T) {
	// Parts are immutable, so a cycle can only be closed through a second
	// object carrying the identity of the first.
	aStub := NewUnit("a", UnitSpec{})
	b := NewUnit("b", UnitSpec{}, WithDeps(aStub))
	a := NewUnit("a", UnitSpec{}, WithDeps(b))

	_, err := Closure(a)
	var cycle *dag.CycleError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, []string{"unit.a", "unit.b", "unit.a"}, cycle.Path)

	t.Run("self dependency", func(t *testing.T) {
		self := NewUnit("s", UnitSpec{}, WithDeps(NewUnit("s", UnitSpec{})))
		_, err := Closure(self)
		require.True(t, errors.As(err, &cycle))
	})

	t.Run("dep closure reports cycles through the part", func(t *testing.T) {
		_, err := DepClosure(a)
		assert.ErrorContains(t, err, "dependency cycle detected")
	})
}

func TestDepClosure(t *testing.T) {
	a := NewUnit("a", UnitSpec{})
	core := NewLib("core", LibSpec{}, WithDeps(a))
	util := NewLib("util", LibSpec{}, WithDeps(core))
	bin := NewBin("main", BinSpec{}, WithDeps(util))

	all, err := DepClosure(bin)
	require.NoError(t, err)
	assert.Equal(t, []string{"unit.a", "lib.core", "lib.util"}, ids(all))

	libs, err := bin.Libs()
	require.NoError(t, err)
	require.Len(t, libs, 2)
	assert.Equal(t, "core", libs[0].Name())
}
