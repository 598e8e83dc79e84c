package args

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/partgrid/internal/cond"
)

func flat(entries []Entry) [][]string {
	out := make([][]string, len(entries))
	for i, e := range entries {
		out[i] = e.Args
	}
	return out
}

func TestContext_StringParse(t *testing.T) {
	testCases := []struct {
		ctx  Context
		text string
	}{
		{CompileByte, "compile-byte"},
		{LinkNative, "link-native"},
		{ArchiveShared, "archive-shared"},
		{DepCtx, "dep"},
		{Custom("gen"), "other:gen"},
	}
	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.text, tc.ctx.String())
			got, err := ParseContext(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.ctx, got)
		})
	}

	for _, bad := range []string{"", "compile-foo", "linking", "other:"} {
		_, err := ParseContext(bad)
		assert.Error(t, err, bad)
	}
}

func TestAppend_OrderAndNoMerge(t *testing.T) {
	a := New(cond.True(), CompileByte, "-g")
	b := New(cond.True(), CompileByte, "-g")
	c := New(cond.True(), LinkByte, "-linkall")

	got := Get(CompileByte, Concat(a, b, c))
	assert.Equal(t, [][]string{{"-g"}, {"-g"}}, flat(got), "equal conditions stay separate")
	assert.Nil(t, Get(CompileNative, a))
}

func TestAppend_Monoid(t *testing.T) {
	dbg := cond.NewAtom(false, "debug", "")
	a := Concat(New(cond.True(), CompileByte, "-a"), New(cond.Of(dbg), LinkByte, "-la"))
	b := New(cond.Not(cond.Of(dbg)), CompileByte, "-b")
	c := Concat(New(cond.True(), CompileByte, "-c"), New(cond.True(), Custom("gen"), "-x"))

	left := Append(Append(a, b), c)
	right := Append(a, Append(b, c))
	for _, ctx := range []Context{CompileByte, LinkByte, Custom("gen")} {
		assert.Equal(t, flat(Get(ctx, left)), flat(Get(ctx, right)), ctx.String())
		assert.Equal(t, flat(Get(ctx, a)), flat(Get(ctx, Append(Empty(), a))), "left identity")
		assert.Equal(t, flat(Get(ctx, a)), flat(Get(ctx, Append(a, Empty()))), "right identity")
		assert.Equal(t, append(flat(Get(ctx, a)), flat(Get(ctx, b))...), flat(Get(ctx, Append(a, b))))
	}
	assert.Equal(t, [][]string{{"-a"}, {"-b"}, {"-c"}}, flat(Get(CompileByte, left)))
}

func TestAppend_DoesNotMutate(t *testing.T) {
	a := New(cond.True(), CompileByte, "-a")
	_ = Append(a, New(cond.True(), CompileByte, "-b"))
	assert.Equal(t, [][]string{{"-a"}}, flat(Get(CompileByte, a)))
}

func TestContexts(t *testing.T) {
	a := Concat(
		New(cond.True(), Custom("gen"), "x"),
		New(cond.True(), LinkByte, "y"),
		New(cond.True(), CompileNative, "z"),
		New(cond.True(), CompileByte, "w"),
	)
	assert.Equal(t, []Context{CompileByte, CompileNative, LinkByte, Custom("gen")}, Contexts(a))
	assert.True(t, Empty().IsEmpty())
}

func TestForAll(t *testing.T) {
	a := ForAll(cond.True(), []Context{CompileByte, CompileNative}, "-w", "+a")
	assert.Equal(t, [][]string{{"-w", "+a"}}, flat(Get(CompileByte, a)))
	assert.Equal(t, [][]string{{"-w", "+a"}}, flat(Get(CompileNative, a)))
}

func TestFlatten(t *testing.T) {
	dbg := cond.NewAtom(false, "debug", "")
	a := Concat(
		New(cond.True(), CompileByte, "-w"),
		New(cond.Of(dbg), CompileByte, "-g"),
		New(cond.True(), CompileByte, "-safe-string"),
	)
	entries := Get(CompileByte, a)

	assert.Equal(t, []string{"-w", "-safe-string"}, Flatten(entries, nil))
	assert.Equal(t, []string{"-w", "-g", "-safe-string"}, Flatten(entries, cond.Table{"debug": true}))
}
