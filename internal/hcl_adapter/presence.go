package hcl_adapter

import (
	"github.com/hashicorp/hcl/v2"
)

// PresentExpr normalizes an optional expression field decoded by gohcl.
// gohcl substitutes a synthetic null literal for an absent optional
// expression attribute, so "was the attribute written at all" cannot be a
// nil check. PresentExpr returns nil for both a nil expression and a
// variable-free null literal, and the expression itself otherwise.
func PresentExpr(expr hcl.Expression) hcl.Expression {
	if expr == nil {
		return nil
	}
	if len(expr.Variables()) > 0 {
		return expr
	}
	val, diags := expr.Value(nil)
	if !diags.HasErrors() && val.IsNull() {
		return nil
	}
	return expr
}
