package registry

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/loomwork/loomlint/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// primitiveTypes maps the bare type keywords a manifest may use to their
// cty equivalents.
var primitiveTypes = map[string]cty.Type{
	"string": cty.String,
	"number": cty.Number,
	"bool":   cty.Bool,
	"any":    cty.DynamicPseudoType,
}

// typeExprToCtyType translates a manifest type expression (string,
// number, bool, any, or list/map/set of those) into a cty.Type. A nil
// expression means the parameter is untyped and maps to the dynamic
// pseudo-type.
func typeExprToCtyType(ctx context.Context, expr hcl.Expression) (cty.Type, error) {
	if expr == nil {
		return cty.DynamicPseudoType, nil
	}

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		// Primitive keywords parse as single-step scope traversals.
		if len(v.Traversal) != 1 {
			return cty.DynamicPseudoType, fmt.Errorf("type keyword must be a single identifier")
		}
		name := v.Traversal.RootName()
		t, ok := primitiveTypes[name]
		if !ok {
			return cty.DynamicPseudoType, fmt.Errorf("unknown primitive type %q", name)
		}
		return t, nil

	case *hclsyntax.FunctionCallExpr:
		ctxlog.FromContext(ctx).Debug("Translating collection type expression.", "constructor", v.Name)
		if len(v.Args) != 1 {
			return cty.DynamicPseudoType, fmt.Errorf("type constructors (list, map, set) require exactly one argument, got %d", len(v.Args))
		}
		elem, err := typeExprToCtyType(ctx, v.Args[0])
		if err != nil {
			return cty.DynamicPseudoType, err
		}
		if elem == cty.DynamicPseudoType {
			return cty.DynamicPseudoType, fmt.Errorf("collection types cannot contain type 'any'")
		}
		switch v.Name {
		case "list":
			return cty.List(elem), nil
		case "map":
			return cty.Map(elem), nil
		case "set":
			return cty.Set(elem), nil
		default:
			return cty.DynamicPseudoType, fmt.Errorf("unknown type constructor %q", v.Name)
		}

	default:
		return cty.DynamicPseudoType, fmt.Errorf("unsupported type expression %T", v)
	}
}
