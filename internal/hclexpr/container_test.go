package hclexpr_test

import (
	"sync"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/require"

	"github.com/vk/partgrid/internal/hclexpr"
)

func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.Pos{Line: 1, Column: 1})
	require.False(t, diags.HasErrors(), "Expression parsing failed: %s", diags.Error())
	return expr
}

func TestContainer_AddAndExtract(t *testing.T) {
	c := hclexpr.NewContainer()
	c.Add(
		parseExpr(t, `upper("x")`),
		parseExpr(t, `atom.debug && !atom.test`),
		parseExpr(t, `[lib.core, lower(unit.a)]`),
		parseExpr(t, `atom.debug`),
		nil,
	)

	require.Equal(t, []string{"lower", "upper"}, c.CalledFunctions())

	var keys []string
	for _, r := range c.References() {
		keys = append(keys, hclexpr.TraversalKey(r))
	}
	require.Equal(t, []string{"atom.debug", "atom.test", "lib.core", "unit.a"}, keys)
}

func TestContainer_AddAfterExtract(t *testing.T) {
	c := hclexpr.NewContainer()
	c.Add(parseExpr(t, `atom.a`))
	require.Len(t, c.References(), 1)

	c.Add(parseExpr(t, `atom.b`))
	require.Len(t, c.References(), 2)
}

func TestContainer_ConcurrentReads(t *testing.T) {
	c := hclexpr.NewContainer()
	c.Add(parseExpr(t, `atom.a || atom.b`))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.Len(t, c.References(), 2)
		}()
	}
	wg.Wait()
}
