// This file parses key type expressions (`string`, `bool`, `number`,
// `list(string)`) into cty types.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/partgrid/internal/ctxlog"
)

// typeExprToCtyType converts a key type expression into its cty.Type.
func typeExprToCtyType(ctx context.Context, expr hcl.Expression) (cty.Type, error) {
	logger := ctxlog.FromContext(ctx)

	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		logger.Debug("Parsing type expression as a function call.", "call", v.Name)
		if v.Name != "list" {
			return cty.NilType, fmt.Errorf("unknown type constructor %q, only list(string) is supported", v.Name)
		}
		if len(v.Args) != 1 {
			return cty.NilType, fmt.Errorf("list() requires exactly one argument, got %d", len(v.Args))
		}
		elem, err := typeExprToCtyType(ctx, v.Args[0])
		if err != nil {
			return cty.NilType, err
		}
		if elem != cty.String {
			return cty.NilType, fmt.Errorf("only list(string) is supported, got list(%s)", elem.FriendlyName())
		}
		return cty.List(cty.String), nil

	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return cty.NilType, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		switch rootName := v.Traversal.RootName(); rootName {
		case "string":
			return cty.String, nil
		case "number":
			return cty.Number, nil
		case "bool":
			return cty.Bool, nil
		default:
			return cty.NilType, fmt.Errorf("unknown primitive type %q", rootName)
		}
	}
	return cty.NilType, fmt.Errorf("unsupported expression for type definition: %T", expr)
}
