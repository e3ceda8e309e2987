// This file implements the conditional-inclusion evaluator: given the
// workload's module list and the validated parameter record, it computes the
// subset of modules to realize.

package resolve

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/halcyard/stackplan/internal/ctxlog"
	"github.com/halcyard/stackplan/internal/hcl_adapter"
	"github.com/halcyard/stackplan/internal/model"
)

// evaluateInclusion partitions the workload's modules into included and
// excluded sets by evaluating each module's `enabled` predicate over the
// workload parameters. A module with no predicate is always included.
// Predicates may reference workload parameters only; the result is
// deterministic given identical parameter values.
func evaluateInclusion(ctx context.Context, workload *model.Workload, params map[string]cty.Value) (included, excluded []*model.Module, err error) {
	logger := ctxlog.FromContext(ctx)

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"param": cty.ObjectVal(params),
		},
	}

	for _, mod := range workload.Modules {
		if mod.Enabled == nil {
			included = append(included, mod)
			continue
		}

		if refs := hcl_adapter.ModuleRefs(mod.Enabled); len(refs) > 0 {
			return nil, nil, &UndefinedReferenceError{
				Module: mod.Name,
				Field:  "enabled",
				Ref:    "module." + refs[0].Instance + "." + refs[0].Output,
				Detail: "inclusion predicates may only reference workload parameters, not module outputs",
			}
		}
		for _, name := range hcl_adapter.ParamRefs(mod.Enabled) {
			if _, declared := workload.Parameters[name]; !declared {
				return nil, nil, &UndefinedReferenceError{
					Module: mod.Name,
					Field:  "enabled",
					Ref:    "param." + name,
					Detail: "the workload declares no parameter with this name",
				}
			}
		}

		val, diags := mod.Enabled.Value(evalCtx)
		if diags.HasErrors() {
			return nil, nil, &UndefinedReferenceError{
				Module: mod.Name,
				Field:  "enabled",
				Ref:    firstTraversalString(mod.Enabled),
				Detail: diags.Error(),
			}
		}

		boolVal, convErr := convert.Convert(val, cty.Bool)
		if convErr != nil || boolVal.IsNull() {
			return nil, nil, &ConstraintViolationError{
				Module:    mod.Name,
				Parameter: "enabled",
				Value:     model.FormatValue(val),
				Detail:    "inclusion predicate must evaluate to a boolean",
			}
		}

		if boolVal.True() {
			included = append(included, mod)
		} else {
			logger.Debug("Module excluded by predicate.", "module", mod.Name)
			excluded = append(excluded, mod)
		}
	}

	return included, excluded, nil
}
