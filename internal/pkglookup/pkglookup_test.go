package pkglookup

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/partgrid/internal/args"
	"github.com/vk/partgrid/internal/registry"
)

// fakeQuerier answers from a table keyed by the joined argv and counts
// calls.
type fakeQuerier struct {
	answers map[string]string
	calls   int
}

func (f *fakeQuerier) Query(_ context.Context, argv []string) (string, error) {
	f.calls++
	out, ok := f.answers[strings.Join(argv, " ")]
	if !ok {
		return "", errors.New("unknown package")
	}
	return out, nil
}

func flat(a args.Args, ctx args.Context) []string {
	return args.Flatten(args.Get(ctx, a), nil)
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	fq := &fakeQuerier{answers: map[string]string{"ocamlfind query unix": "/lib/unix\n"}}
	c := NewCache(fq)

	for i := 0; i < 3; i++ {
		out, err := c.Query(ctx, []string{"ocamlfind", "query", "unix"})
		require.NoError(t, err)
		assert.Equal(t, "/lib/unix\n", out)
	}
	_, err := c.Query(ctx, []string{"ocamlfind", "query", "nope"})
	assert.Error(t, err)
	_, err = c.Query(ctx, []string{"ocamlfind", "query", "nope"})
	assert.Error(t, err, "failures are cached too")

	assert.Equal(t, 2, fq.calls)
	hits, misses := c.Stats()
	assert.Equal(t, 3, hits)
	assert.Equal(t, 2, misses)
}

func TestOcamlfind(t *testing.T) {
	fq := &fakeQuerier{answers: map[string]string{
		"ocamlfind query -r -i-format unix":                    "-I /lib/unix\n",
		"ocamlfind query -r -a-format -predicates byte unix":   "unix.cma\n",
		"ocamlfind query -r -a-format -predicates native unix": "unix.cmxa\n",
	}}
	o := &Ocamlfind{Q: fq}

	got, err := o.Lookup(context.Background(), "unix")
	require.NoError(t, err)
	assert.Equal(t, []string{"-I", "/lib/unix"}, flat(got, args.CompileByte))
	assert.Equal(t, []string{"-I", "/lib/unix"}, flat(got, args.DocCtx))
	assert.Equal(t, []string{"-I", "/lib/unix", "unix.cma"}, flat(got, args.LinkByte))
	assert.Equal(t, []string{"-I", "/lib/unix", "unix.cmxa"}, flat(got, args.LinkNative))

	_, err = o.Lookup(context.Background(), "missing")
	assert.ErrorContains(t, err, "unknown package")
}

func TestPkgConfig(t *testing.T) {
	fq := &fakeQuerier{answers: map[string]string{
		"pkgconf --cflags zlib": "-I/usr/include\n",
		"pkgconf --libs zlib":   "-lz\n",
	}}
	p := &PkgConfig{Program: "pkgconf", Q: fq}

	got, err := p.Lookup(context.Background(), "zlib")
	require.NoError(t, err)
	assert.Equal(t, []string{"-ccopt", "-I/usr/include"}, flat(got, args.CompileNative))
	assert.Equal(t, []string{"-cclib", "-lz"}, flat(got, args.LinkByte))
}

func TestModule(t *testing.T) {
	custom := Func(func(context.Context, string) (args.Args, error) { return args.Empty(), nil })
	r, err := registry.New(Module{Cache: NewCache(&fakeQuerier{}), Custom: map[string]Func{"opam": custom}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ocamlfind", "opam", "pkg-config"}, r.Kinds())

	_, ok := r.Mechanism("ocamlfind")
	assert.True(t, ok)

	err = Module{Cache: NewCache(&fakeQuerier{})}.Register(r)
	assert.ErrorContains(t, err, "already registered")
}

func TestExecQuerier(t *testing.T) {
	_, err := ExecQuerier{}.Query(context.Background(), nil)
	assert.Error(t, err)

	_, err = ExecQuerier{}.Query(context.Background(), []string{"partgrid-no-such-program"})
	assert.Error(t, err)
}
