package hcl_adapter

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// EmptyValue returns the implicit sentinel value for a type: the value a
// template output carries when its instance is excluded and no explicit
// sentinel was declared.
func EmptyValue(ty cty.Type) (cty.Value, error) {
	switch {
	case ty == cty.String:
		return cty.StringVal(""), nil
	case ty == cty.Number:
		return cty.Zero, nil
	case ty == cty.Bool:
		return cty.False, nil
	case ty.IsListType():
		return cty.ListValEmpty(ty.ElementType()), nil
	case ty.IsSetType():
		return cty.SetValEmpty(ty.ElementType()), nil
	case ty.IsMapType():
		return cty.MapValEmpty(ty.ElementType()), nil
	case ty.IsObjectType():
		attrTypes := ty.AttributeTypes()
		if len(attrTypes) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(attrTypes))
		for name, attrType := range attrTypes {
			v, err := EmptyValue(attrType)
			if err != nil {
				return cty.NilVal, fmt.Errorf("in object attribute '%s': %w", name, err)
			}
			attrs[name] = v
		}
		return cty.ObjectVal(attrs), nil
	default:
		return cty.NilVal, fmt.Errorf("type %s has no implicit sentinel value; declare one explicitly", ty.FriendlyName())
	}
}

// LiteralValue evaluates an expression with no variable scope (literals only)
// and converts the result to the given type. Used for manifest-declared
// defaults, allowed sets, and sentinels.
func LiteralValue(expr hcl.Expression, ty cty.Type) (cty.Value, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("value must be a literal: %w", diags)
	}

	converted, err := convert.Convert(val, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("cannot convert %s to %s: %w", val.Type().FriendlyName(), ty.FriendlyName(), err)
	}
	return converted, nil
}
