// This file contains the logic for parsing HCL type expressions (e.g. `string`
// or "INTEGER") into interface variable types.

package hcl_adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/gridclosure/internal/ctxlog"
	"github.com/specialistvlad/gridclosure/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// typeExprToSimpleType converts a variable's `type` attribute into a
// model.SimpleType. Both a bare keyword (`type = integer`) and a string
// (`type = "INTEGER"`) are accepted, case-insensitively. An omitted type is
// TypeNone.
func typeExprToSimpleType(ctx context.Context, expr hcl.Expression) (model.SimpleType, error) {
	logger := ctxlog.FromContext(ctx)

	if !isExprDefined(ctx, expr, "type") {
		logger.Debug("Type expression is not defined, defaulting to NONE.")
		return model.TypeNone, nil
	}

	var keyword string
	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return "", fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		keyword = v.Traversal.RootName()
		logger.Debug("Parsing type expression as a keyword.", "keyword", keyword)
	default:
		val, diags := expr.Value(nil)
		if diags.HasErrors() {
			return "", fmt.Errorf("invalid type expression: %w", diags)
		}
		if val.IsNull() || !val.IsKnown() || !val.Type().Equals(cty.String) {
			return "", fmt.Errorf("type must be a keyword or a string, got %s", val.Type().FriendlyName())
		}
		keyword = val.AsString()
		logger.Debug("Parsing type expression as a string.", "value", keyword)
	}

	return model.ParseSimpleType(strings.ToUpper(keyword))
}
