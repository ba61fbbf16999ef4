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

// isExprDefined checks if an HCL expression was actually present in the source
// code. For an omitted optional attribute the decoder populates the field with
// a synthetic null expression whose source range has zero width, so a nil
// check alone is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Expression is nil, considering it undefined.", "attribute", attrName)
		return false
	}

	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// evalLiteral evaluates an expression without any variables or functions in
// scope. Only literal values are accepted.
func evalLiteral(expr hcl.Expression) (cty.Value, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	if !val.IsWhollyKnown() {
		return cty.NilVal, fmt.Errorf("value must be known")
	}
	return val, nil
}

// evalStruct evaluates an optional object-valued attribute into a Struct.
// An omitted attribute yields an empty Struct.
func evalStruct(ctx context.Context, expr hcl.Expression, attrName string) (model.Struct, error) {
	if !isExprDefined(ctx, expr, attrName) {
		return model.EmptyStruct(), nil
	}
	val, err := evalLiteral(expr)
	if err != nil {
		return model.Struct{}, fmt.Errorf("invalid %s: %w", attrName, err)
	}
	s, err := model.StructFromValue(val)
	if err != nil {
		return model.Struct{}, fmt.Errorf("invalid %s: %w", attrName, err)
	}
	return s, nil
}

// StartNodeID names the pseudo node whose outputs are the workflow inputs.
// Promises on it never create upstream links.
const StartNodeID = "start"

// promiseFromExpr reads a promise written either as a bare traversal
// (node_id.var) or as a string.
func promiseFromExpr(expr hcl.Expression) (*model.OutputReference, error) {
	if traversal, diags := hcl.AbsTraversalForExpr(expr); !diags.HasErrors() {
		if len(traversal) != 2 {
			return nil, fmt.Errorf("promise must be node_id.var, got %d traversal steps", len(traversal))
		}
		attr, ok := traversal[1].(hcl.TraverseAttr)
		if !ok {
			return nil, fmt.Errorf("promise must be node_id.var, not an index")
		}
		return &model.OutputReference{NodeID: traversal.RootName(), Var: attr.Name}, nil
	}

	val, err := evalLiteral(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid promise: %w", err)
	}
	if val.IsNull() || !val.Type().Equals(cty.String) {
		return nil, fmt.Errorf("promise must be a traversal or a string, got %s", val.Type().FriendlyName())
	}
	return parsePromise(val.AsString())
}

// parsePromise splits a "node_id.var" reference.
func parsePromise(raw string) (*model.OutputReference, error) {
	nodeID, varName, ok := strings.Cut(raw, ".")
	if !ok || nodeID == "" || varName == "" {
		return nil, fmt.Errorf("promise %q must have the form node_id.var", raw)
	}
	return &model.OutputReference{NodeID: nodeID, Var: varName}, nil
}

// ParseObjectLiteral parses HCL source holding a single object literal, such
// as `{ retries = 2, image = "base" }`, into a Struct. Empty source yields an
// empty Struct.
func ParseObjectLiteral(src string) (model.Struct, error) {
	if strings.TrimSpace(src) == "" {
		return model.EmptyStruct(), nil
	}
	expr, diags := hclsyntax.ParseExpression([]byte(src), "<literal>", hcl.InitialPos)
	if diags.HasErrors() {
		return model.Struct{}, fmt.Errorf("failed to parse object literal: %w", diags)
	}
	val, err := evalLiteral(expr)
	if err != nil {
		return model.Struct{}, fmt.Errorf("failed to evaluate object literal: %w", err)
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return model.Struct{}, fmt.Errorf("expected an object literal, got %s", val.Type().FriendlyName())
	}
	return model.StructFromValue(val)
}
