package env

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/cond"
	"github.com/vk/partgrid/internal/value"
)

type fakeLookups map[string]PackageLookup

func (f fakeLookups) Mechanism(kind string) (PackageLookup, bool) {
	m, ok := f[kind]
	return m, ok
}

type constLookup struct{ a args.Args }

func (c constLookup) Lookup(context.Context, string) (args.Args, error) { return c.a, nil }

func TestBuiltin(t *testing.T) {
	cfg := Builtin()
	_, ok := cfg.Lookup("native-dynlink")
	assert.True(t, ok)
	_, ok = cfg.Lookup("ocamlfind")
	assert.True(t, ok)

	r := cond.NewRegistry()
	require.NoError(t, RegisterAtoms(r))
	require.NoError(t, RegisterAtoms(r), "registering twice is a no-op")
	assert.Len(t, r.Atoms(), len(Atoms()))
}

func TestNew_TableFromKeys(t *testing.T) {
	cfg, err := value.Set(Builtin(), KeyNative, false)
	require.NoError(t, err)
	e, err := New(cfg)
	require.NoError(t, err)

	assert.False(t, e.Holds(cond.Of(AtomNative)))
	assert.False(t, e.Holds(cond.Of(AtomNativeDynlink)), "native-dynlink defaults to native")
	assert.True(t, e.Holds(cond.Of(AtomByte)))
	assert.False(t, e.Holds(cond.Of(AtomDebug)))

	dir, err := e.BuildDir()
	require.NoError(t, err)
	assert.Equal(t, "_build", dir)
}

func TestNew_TruthOverrides(t *testing.T) {
	e, err := New(Builtin(), WithTruth(cond.Table{"native": false, "profile": true}))
	require.NoError(t, err)

	assert.False(t, e.Holds(cond.Of(AtomNative)))
	assert.True(t, e.Holds(cond.Of(AtomNativeDynlink)), "override does not touch the key")
	assert.True(t, e.Table()["profile"])
}

func TestNew_AtomDefaultsWithoutKeys(t *testing.T) {
	e, err := New(value.Empty())
	require.NoError(t, err)
	assert.True(t, e.Holds(cond.Of(AtomNative)))
	assert.False(t, e.Holds(cond.Of(AtomJs)))
}

func TestLookup(t *testing.T) {
	want := args.New(cond.True(), args.LinkByte, "-lunix")
	e, err := New(Builtin(), WithLookups(fakeLookups{"ocamlfind": constLookup{want}}))
	require.NoError(t, err)

	m, err := e.Lookup("ocamlfind")
	require.NoError(t, err)
	got, err := m.Lookup(context.Background(), "unix")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = e.Lookup("opam")
	var le *LookupError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "opam", le.Kind)
}
