// This file builds ParameterDefinition values from their raw schema form.
//
// Why validate constraints while building the model?
//
// A constraint that can never hold (a min on a string, an allowed set whose
// members don't convert to the declared type) is an authoring error in the
// manifest itself, independent of any workload or bundle. Catching it here
// means every later consumer can trust that a definition's constraints are
// internally consistent.

package model

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/halcyard/stackplan/internal/hcl_adapter"
	"github.com/halcyard/stackplan/internal/schema"
)

// ParameterDefinition is the format-agnostic representation of one declared
// parameter of a template or workload.
type ParameterDefinition struct {
	Name        string
	Type        cty.Type
	Description string

	// Default, when non-nil, makes the parameter optional.
	Default  *cty.Value
	Optional bool

	// Constraints. Allowed applies to any type; Min/Max to numbers;
	// MinLength/MaxLength to strings.
	Allowed   []cty.Value
	Min       *float64
	Max       *float64
	MinLength *int
	MaxLength *int
}

// NewParameterFromHCL translates a raw parameter block into its definition,
// resolving the type expression and checking that the declared constraints
// are coherent with that type.
func NewParameterFromHCL(ctx context.Context, raw *schema.Parameter) (*ParameterDefinition, error) {
	ty, err := hcl_adapter.TypeExprToCtyType(ctx, raw.Type)
	if err != nil {
		return nil, fmt.Errorf("parameter '%s': invalid type: %w", raw.Name, err)
	}

	rawDefault := hcl_adapter.PresentExpr(raw.Default)
	rawAllowed := hcl_adapter.PresentExpr(raw.Allowed)

	def := &ParameterDefinition{
		Name:        raw.Name,
		Type:        ty,
		Description: raw.Description,
		Min:         raw.Min,
		Max:         raw.Max,
		MinLength:   raw.MinLength,
		MaxLength:   raw.MaxLength,
	}

	if (raw.Min != nil || raw.Max != nil) && ty != cty.Number {
		return nil, fmt.Errorf("parameter '%s': min/max constraints require type number, not %s", raw.Name, ty.FriendlyName())
	}
	if (raw.MinLength != nil || raw.MaxLength != nil) && ty != cty.String {
		return nil, fmt.Errorf("parameter '%s': length constraints require type string, not %s", raw.Name, ty.FriendlyName())
	}
	if raw.Min != nil && raw.Max != nil && *raw.Min > *raw.Max {
		return nil, fmt.Errorf("parameter '%s': min (%v) exceeds max (%v)", raw.Name, *raw.Min, *raw.Max)
	}
	if raw.MinLength != nil && raw.MaxLength != nil && *raw.MinLength > *raw.MaxLength {
		return nil, fmt.Errorf("parameter '%s': min_length (%d) exceeds max_length (%d)", raw.Name, *raw.MinLength, *raw.MaxLength)
	}

	if rawAllowed != nil {
		allowedVal, diags := rawAllowed.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parameter '%s': allowed set must be a list of literals: %w", raw.Name, diags)
		}
		if !allowedVal.Type().IsTupleType() && !allowedVal.Type().IsListType() {
			return nil, fmt.Errorf("parameter '%s': allowed set must be a list, got %s", raw.Name, allowedVal.Type().FriendlyName())
		}
		for it := allowedVal.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			converted, err := convert.Convert(elem, ty)
			if err != nil {
				return nil, fmt.Errorf("parameter '%s': allowed value does not match declared type %s: %w", raw.Name, ty.FriendlyName(), err)
			}
			def.Allowed = append(def.Allowed, converted)
		}
	}

	if rawDefault != nil {
		defaultVal, err := hcl_adapter.LiteralValue(rawDefault, ty)
		if err != nil {
			return nil, fmt.Errorf("parameter '%s': invalid default: %w", raw.Name, err)
		}
		if err := def.CheckValue(defaultVal); err != nil {
			return nil, fmt.Errorf("parameter '%s': default violates its own constraints: %w", raw.Name, err)
		}
		def.Default = &defaultVal
		def.Optional = true
	}

	return def, nil
}

// CheckValue reports whether a fully-converted value satisfies the
// definition's constraints. It assumes the value already has the declared
// type; conversion is the caller's concern.
func (d *ParameterDefinition) CheckValue(val cty.Value) error {
	if val.IsNull() {
		return fmt.Errorf("value must not be null")
	}

	if len(d.Allowed) > 0 {
		found := false
		for _, allowed := range d.Allowed {
			if val.RawEquals(allowed) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("value %s is not in the allowed set %s", valueForMessage(val), valuesForMessage(d.Allowed))
		}
	}

	if d.Min != nil || d.Max != nil {
		f, _ := val.AsBigFloat().Float64()
		if d.Min != nil && f < *d.Min {
			return fmt.Errorf("value %s is below the minimum %v", valueForMessage(val), *d.Min)
		}
		if d.Max != nil && f > *d.Max {
			return fmt.Errorf("value %s is above the maximum %v", valueForMessage(val), *d.Max)
		}
	}

	if d.MinLength != nil || d.MaxLength != nil {
		length := len(val.AsString())
		if d.MinLength != nil && length < *d.MinLength {
			return fmt.Errorf("value %s is shorter than min_length %d", valueForMessage(val), *d.MinLength)
		}
		if d.MaxLength != nil && length > *d.MaxLength {
			return fmt.Errorf("value %s is longer than max_length %d", valueForMessage(val), *d.MaxLength)
		}
	}

	return nil
}
