package dag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, nodes []string, edges [][2]string) *Graph {
	t.Helper()
	g := New()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e[0], e[1]))
	}
	return g
}

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Empty(t, g.nodes)
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("a")
	assert.Len(t, g.nodes, 1)
	nodeA, ok := g.nodes["a"]
	require.True(t, ok)
	assert.Equal(t, "a", nodeA.id)

	g.AddNode("a") // Test idempotency
	assert.Len(t, g.nodes, 1)

	g.AddNode("b")
	assert.Equal(t, []string{"a", "b"}, g.Nodes())
	assert.True(t, g.Has("b"))
	assert.False(t, g.Has("c"))
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}}) // b depends on a

		deps, err := g.Dependencies("b")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, deps)
		dependents, err := g.Dependents("a")
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, dependents)

		require.NoError(t, g.AddEdge("a", "b"), "duplicate edge is a no-op")
		deps, _ = g.Dependencies("b")
		assert.Len(t, deps, 1)
	})

	t.Run("error cases", func(t *testing.T) {
		g := build(t, []string{"a", "b"}, nil)

		err := g.AddEdge("dne", "a")
		assert.ErrorContains(t, err, "source node not found")

		err = g.AddEdge("a", "dne")
		assert.ErrorContains(t, err, "destination node not found")

		err = g.AddEdge("a", "a")
		var cycle *CycleError
		require.True(t, errors.As(err, &cycle))
		assert.Equal(t, []string{"a", "a"}, cycle.Path)

		_, err = g.Dependencies("dne")
		assert.ErrorContains(t, err, "node not found")
	})
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		assert.NoError(t, New().DetectCycles())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := build(t, []string{"a", "b", "c", "d"}, [][2]string{
			{"a", "b"}, {"b", "c"}, {"a", "c"}, {"c", "d"},
		})
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("simple direct cycle is detected", func(t *testing.T) {
		g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})
		err := g.DetectCycles()
		var cycle *CycleError
		require.True(t, errors.As(err, &cycle))
		assert.Equal(t, []string{"a", "b", "a"}, cycle.Path)
		assert.EqualError(t, err, "dependency cycle detected: a -> b -> a")
	})

	t.Run("cycle in a disconnected component is detected", func(t *testing.T) {
		g := build(t, []string{"a", "b", "x", "y", "z"}, [][2]string{
			{"a", "b"},
			{"x", "y"}, {"y", "z"}, {"z", "y"},
		})
		err := g.DetectCycles()
		assert.ErrorContains(t, err, "cycle detected")
		assert.ErrorContains(t, err, "y -> z -> y")
	})
}

func TestTopoSort(t *testing.T) {
	// d depends on b and c, which both depend on a.
	g := build(t, []string{"d", "c", "b", "a"}, [][2]string{
		{"b", "d"}, {"c", "d"}, {"a", "b"}, {"a", "c"},
	})

	order, err := g.TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)

	again, err := g.TopoSort()
	require.NoError(t, err)
	assert.Equal(t, order, again, "order is stable")
}

func TestClosure(t *testing.T) {
	g := build(t, []string{"a", "b", "c", "unrelated"}, [][2]string{{"a", "b"}, {"b", "c"}})

	got, err := g.Closure("c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)

	got, err = g.Closure("b", "unrelated")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "unrelated"}, got)

	_, err = g.Closure("dne")
	assert.ErrorContains(t, err, "node not found")
}
