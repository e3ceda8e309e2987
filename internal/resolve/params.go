// This file implements the parameter validator/defaulter: pure validation
// over already-resolved data, no I/O.

package resolve

import (
	"context"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/halcyard/stackplan/internal/bundle"
	"github.com/halcyard/stackplan/internal/ctxlog"
	"github.com/halcyard/stackplan/internal/hcl_adapter"
	"github.com/halcyard/stackplan/internal/model"
)

// resolveWorkloadParameters validates the bundle against the workload's own
// parameter schema and returns the fully defaulted value record.
func resolveWorkloadParameters(ctx context.Context, workload *model.Workload, b *bundle.Bundle) (map[string]cty.Value, error) {
	logger := ctxlog.FromContext(ctx)

	for _, key := range sortedKeys(b.Values) {
		if _, declared := workload.Parameters[key]; !declared {
			return nil, &UndefinedReferenceError{
				Field:  "bundle",
				Ref:    key,
				Detail: "the workload declares no parameter with this name",
			}
		}
	}

	values := make(map[string]cty.Value, len(workload.Parameters))
	for _, name := range sortedKeys(workload.Parameters) {
		def := workload.Parameters[name]

		raw, supplied := b.Values[name]
		if !supplied {
			if def.Default == nil {
				return nil, &MissingParameterError{Parameter: name}
			}
			values[name] = *def.Default
			logger.Debug("Workload parameter defaulted.", "parameter", name)
			continue
		}

		converted, err := convert.Convert(raw, def.Type)
		if err != nil {
			return nil, &ConstraintViolationError{
				Parameter: name,
				Value:     model.FormatValue(raw),
				Detail:    "cannot convert to declared type " + def.Type.FriendlyName(),
			}
		}
		if err := def.CheckValue(converted); err != nil {
			return nil, &ConstraintViolationError{
				Parameter: name,
				Value:     model.FormatValue(converted),
				Detail:    err.Error(),
			}
		}
		values[name] = converted
	}

	return values, nil
}

// resolvedModule pairs a module's validated parameter record with its plan
// rendering.
type resolvedModule struct {
	values map[string]cty.Value
	render map[string]renderedValue
}

// renderedValue is the plan-facing form of one resolved binding.
type renderedValue struct {
	value    cty.Value
	deferred bool
	ref      string
}

// resolveModuleParameters evaluates and validates one included module's
// parameter bindings against its template's schema.
func resolveModuleParameters(ctx context.Context, mod *model.Module, tpl *model.Template, evalCtx *hcl.EvalContext) (*resolvedModule, error) {
	logger := ctxlog.FromContext(ctx).With("module", mod.Name)

	for _, name := range sortedKeys(mod.Arguments) {
		if _, declared := tpl.Parameters[name]; !declared {
			return nil, &UndefinedReferenceError{
				Module: mod.Name,
				Field:  "parameters." + name,
				Ref:    name,
				Detail: "template '" + tpl.Type + "' declares no parameter with this name",
			}
		}
	}

	resolved := &resolvedModule{
		values: make(map[string]cty.Value, len(tpl.Parameters)),
		render: make(map[string]renderedValue, len(tpl.Parameters)),
	}

	for _, name := range sortedKeys(tpl.Parameters) {
		def := tpl.Parameters[name]
		fieldPath := "parameters." + name

		expr, bound := mod.Arguments[name]
		if !bound {
			if def.Default == nil {
				return nil, &MissingParameterError{Module: mod.Name, Parameter: name}
			}
			resolved.values[name] = *def.Default
			resolved.render[name] = renderedValue{value: *def.Default}
			logger.Debug("Module parameter defaulted.", "parameter", name)
			continue
		}

		val, diags := expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, &UndefinedReferenceError{
				Module: mod.Name,
				Field:  fieldPath,
				Ref:    firstTraversalString(expr),
				Detail: diags.Error(),
			}
		}

		converted, err := convert.Convert(val, def.Type)
		if err != nil {
			return nil, &ConstraintViolationError{
				Module:    mod.Name,
				Parameter: name,
				Value:     model.FormatValue(val),
				Detail:    "cannot convert to declared type " + def.Type.FriendlyName(),
			}
		}

		if !converted.IsWhollyKnown() {
			// The binding depends on an output that only exists after
			// materialization. Constraint checks on it belong to the
			// producing template's contract, not this consumer.
			var ref string
			if bare, ok := hcl_adapter.BareModuleRef(expr); ok {
				ref = "module." + bare.Instance + "." + bare.Output
			}
			resolved.values[name] = converted
			resolved.render[name] = renderedValue{deferred: true, ref: ref}
			continue
		}

		if err := def.CheckValue(converted); err != nil {
			return nil, &ConstraintViolationError{
				Module:    mod.Name,
				Parameter: name,
				Value:     model.FormatValue(converted),
				Detail:    err.Error(),
			}
		}
		resolved.values[name] = converted
		resolved.render[name] = renderedValue{value: converted}
	}

	return resolved, nil
}

// firstTraversalString renders the first variable reference of an expression
// for error messages, or an empty string if it has none.
func firstTraversalString(expr hcl.Expression) string {
	for _, traversal := range expr.Variables() {
		if ref, ok := hcl_adapter.ParseModuleTraversal(traversal); ok {
			return "module." + ref.Instance + "." + ref.Output
		}
		if name, ok := hcl_adapter.ParseParamTraversal(traversal); ok {
			return "param." + name
		}
		return traversal.RootName()
	}
	return ""
}

// sortedKeys returns the map's keys in lexical order, for deterministic
// iteration and error reporting.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
