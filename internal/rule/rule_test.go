package rule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/cond"
)

func TestProduct(t *testing.T) {
	native := cond.NewAtom(true, "native", "")

	f := File("_build/src/../src/a.cmx", cond.Of(native))
	assert.True(t, f.IsFile())
	assert.Equal(t, "_build/src/a.cmx", f.Path())
	assert.Equal(t, "cmx", f.Ext())
	assert.Equal(t, "a.cmx", f.Base())
	assert.Equal(t, "file:_build/src/a.cmx", f.Key())
	assert.Equal(t, "file:_build/src/a.cmx [native]", f.String())

	e := Effect("run-check", "_build", cond.True())
	assert.False(t, e.IsFile())
	assert.Equal(t, "effect:_build/run-check", e.Key())
	assert.Equal(t, "_build/run-check", e.Target())

	assert.Equal(t, f.Key(), f.WithCond(cond.False()).Key(), "key ignores condition")
}

func TestFilters(t *testing.T) {
	ps := []Product{
		File("a.cmi", cond.True()),
		File("a.cmo", cond.False()),
		Effect("x", ".", cond.True()),
		File("lib.cma", cond.True()),
	}
	assert.Len(t, Files(ps), 3)
	assert.Equal(t, []Product{ps[0], ps[3]}, WithExt(ps, "cmi", "cma"))
	assert.Equal(t, []Product{ps[0], ps[2], ps[3]}, Present(ps, nil))
}

func TestNew_ConjoinsInputConditions(t *testing.T) {
	r := cond.NewRegistry()
	native, err := r.Create(true, "native", "")
	require.NoError(t, err)
	debug, err := r.Create(false, "debug", "")
	require.NoError(t, err)

	in := []Product{File("a.ml", cond.Of(debug)), File("a.cmi", cond.True())}
	out := []Product{File("a.cmx", cond.Of(native))}
	rl := New(args.CompileNative, in, out)

	want := cond.And(cond.Of(native), cond.Of(debug))
	assert.True(t, cond.Equal(want, rl.Outputs[0].Cond()), "got %s", rl.Outputs[0].Cond())
	assert.True(t, cond.Equal(want, rl.Cond()))
	assert.Equal(t, "compile-native -> a.cmx", rl.String())
}

func TestCmd_Resolve(t *testing.T) {
	debug := cond.NewAtom(false, "debug", "")
	cmd := Cmd{
		Program: "ocamlc",
		Args: args.Concat(
			args.New(cond.True(), args.CompileByte, "-c"),
			args.New(cond.Of(debug), args.CompileByte, "-g"),
			args.New(cond.True(), args.LinkByte, "-linkall"),
		),
	}
	assert.Equal(t, []string{"ocamlc", "-c"}, cmd.Resolve(args.CompileByte, nil))
	assert.Equal(t, []string{"ocamlc", "-c", "-g"}, cmd.Resolve(args.CompileByte, cond.Table{"debug": true}))

	cmd.Transform = func(raw []string) []string {
		return []string{strings.Join(raw, ",")}
	}
	rl := New(args.CompileByte, nil, []Product{File("a.cmo", cond.True())}, cmd, Command(args.CompileByte, "touch", "a.cmo"))
	assert.Equal(t, [][]string{{"ocamlc", "-c,-g"}, {"touch", "a.cmo"}}, rl.Commands(cond.Table{"debug": true}))
}
