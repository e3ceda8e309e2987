package resolve

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/halcyard/stackplan/internal/bundle"
	"github.com/halcyard/stackplan/internal/ctxlog"
	"github.com/halcyard/stackplan/internal/hcl_adapter"
	"github.com/halcyard/stackplan/internal/model"
	"github.com/halcyard/stackplan/internal/plan"
	"github.com/halcyard/stackplan/internal/registry"
)

// Result is a successful resolution: the realization plan plus any warnings
// worth surfacing to the composition author.
type Result struct {
	Plan     *plan.Plan
	Warnings []Warning
}

// Resolve computes the realization plan for one workload composition against
// a template catalog and a parameter-value bundle. It is a pure function of
// its inputs; any configuration error aborts the whole resolution.
func Resolve(ctx context.Context, workload *model.Workload, reg *registry.Registry, b *bundle.Bundle) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	params, err := resolveWorkloadParameters(ctx, workload, b)
	if err != nil {
		return nil, err
	}
	logger.Debug("Workload parameters resolved.", "count", len(params))

	if err := checkTemplates(workload, reg); err != nil {
		return nil, err
	}

	included, excluded, err := evaluateInclusion(ctx, workload, params)
	if err != nil {
		return nil, err
	}
	logger.Debug("Inclusion evaluated.", "included", len(included), "excluded", len(excluded))

	wires, warnings, err := buildWiring(ctx, workload, reg, included, excluded)
	if err != nil {
		return nil, err
	}
	logger.Debug("Dependency graph ordered.", "order", wires.order)

	evalCtx := buildEvalContext(workload, reg, params, included, excluded)

	includedByName := make(map[string]*model.Module, len(included))
	for _, mod := range included {
		includedByName[mod.Name] = mod
	}

	result := &plan.Plan{
		FormatVersion: plan.FormatVersion,
		Parameters:    make(map[string]json.RawMessage, len(params)),
	}

	for name, val := range params {
		raw, err := marshalValue(val)
		if err != nil {
			return nil, fmt.Errorf("failed to encode workload parameter '%s': %w", name, err)
		}
		result.Parameters[name] = raw
	}

	for _, name := range wires.order {
		mod := includedByName[name]
		tpl := reg.Lookup(mod.TemplateType)

		resolved, err := resolveModuleParameters(ctx, mod, tpl, evalCtx)
		if err != nil {
			return nil, err
		}

		planned, err := planModule(mod, tpl, resolved, wires.deps[name])
		if err != nil {
			return nil, err
		}
		result.Modules = append(result.Modules, planned)
	}

	for _, mod := range excluded {
		entry, err := planExcludedModule(mod, reg.Lookup(mod.TemplateType))
		if err != nil {
			return nil, err
		}
		result.Excluded = append(result.Excluded, entry)
	}

	if len(workload.Outputs) > 0 {
		result.Outputs = make(map[string]plan.Value, len(workload.Outputs))
		for _, output := range workload.Outputs {
			val, err := resolveWorkloadOutput(output, evalCtx)
			if err != nil {
				return nil, err
			}
			result.Outputs[output.Name] = val
		}
	}

	for _, warning := range warnings {
		logger.Warn("Exclusion fallback in effect.", "warning", warning.String())
	}

	return &Result{Plan: result, Warnings: warnings}, nil
}

// checkTemplates verifies that every module instance names a known template
// and satisfies its declared version constraint. Excluded modules are
// checked too: a dangling template reference is a defect of the composition
// regardless of which flags are set today.
func checkTemplates(workload *model.Workload, reg *registry.Registry) error {
	for _, mod := range workload.Modules {
		tpl := reg.Lookup(mod.TemplateType)
		if tpl == nil {
			return &UndefinedReferenceError{
				Module: mod.Name,
				Field:  "template_type",
				Ref:    mod.TemplateType,
				Detail: "the catalog declares no template with this type",
			}
		}
		if mod.VersionConstraint != nil && !mod.VersionConstraint.Check(tpl.Version) {
			return &ConstraintViolationError{
				Module:    mod.Name,
				Parameter: "version",
				Value:     `"` + tpl.Version.String() + `"`,
				Detail:    "template version does not satisfy the declared constraint",
			}
		}
	}
	return nil
}

// buildEvalContext constructs the expression scope shared by all binding
// evaluations: `param.*` holds the validated workload parameters and
// `module.<instance>` holds each producer's output record — sentinel values
// for excluded instances, deferred placeholders for included ones.
func buildEvalContext(workload *model.Workload, reg *registry.Registry, params map[string]cty.Value, included, excluded []*model.Module) *hcl.EvalContext {
	instances := make(map[string]cty.Value, len(workload.Modules))

	for _, mod := range included {
		tpl := reg.Lookup(mod.TemplateType)
		outputs := make(map[string]cty.Value, len(tpl.Outputs))
		for name, def := range tpl.Outputs {
			outputs[name] = cty.UnknownVal(def.Type)
		}
		instances[mod.Name] = objectOrEmpty(outputs)
	}
	for _, mod := range excluded {
		tpl := reg.Lookup(mod.TemplateType)
		instances[mod.Name] = objectOrEmpty(tpl.SentinelOutputs())
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"param":  cty.ObjectVal(params),
			"module": objectOrEmpty(instances),
		},
	}
}

// objectOrEmpty wraps a value map as an object, tolerating the empty case.
func objectOrEmpty(vals map[string]cty.Value) cty.Value {
	if len(vals) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vals)
}

// planModule renders one included module into its plan entry.
func planModule(mod *model.Module, tpl *model.Template, resolved *resolvedModule, deps []string) (*plan.Module, error) {
	planned := &plan.Module{
		Name:       mod.Name,
		Template:   tpl.Type,
		Version:    tpl.Version.String(),
		Parameters: make(map[string]plan.Value, len(resolved.render)),
		Outputs:    make(map[string]string, len(tpl.Outputs)),
		DependsOn:  deps,
	}

	for name, rendered := range resolved.render {
		if rendered.deferred {
			planned.Parameters[name] = plan.DeferredValue(rendered.ref)
			continue
		}
		raw, err := marshalValue(rendered.value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode parameter '%s' of module '%s': %w", name, mod.Name, err)
		}
		planned.Parameters[name] = plan.KnownValue(raw)
	}

	for name, def := range tpl.Outputs {
		planned.Outputs[name] = def.Type.FriendlyName()
	}
	for _, resource := range tpl.Resources {
		planned.Resources = append(planned.Resources, plan.Resource{
			Type: resource.Type,
			Name: resource.Name,
		})
	}

	return planned, nil
}

// planExcludedModule renders one excluded module with its sentinel outputs.
func planExcludedModule(mod *model.Module, tpl *model.Template) (*plan.ExcludedModule, error) {
	entry := &plan.ExcludedModule{
		Name:     mod.Name,
		Template: tpl.Type,
		Outputs:  make(map[string]json.RawMessage, len(tpl.Outputs)),
	}
	for name, val := range tpl.SentinelOutputs() {
		raw, err := marshalValue(val)
		if err != nil {
			return nil, fmt.Errorf("failed to encode sentinel output '%s' of module '%s': %w", name, mod.Name, err)
		}
		entry.Outputs[name] = raw
	}
	return entry, nil
}

// resolveWorkloadOutput evaluates one workload output against the shared
// scope. Outputs that depend on unrealized module outputs stay deferred.
func resolveWorkloadOutput(output *model.WorkloadOutput, evalCtx *hcl.EvalContext) (plan.Value, error) {
	val, diags := output.Value.Value(evalCtx)
	if diags.HasErrors() {
		return plan.Value{}, &UndefinedReferenceError{
			Field:  "outputs." + output.Name,
			Ref:    firstTraversalString(output.Value),
			Detail: diags.Error(),
		}
	}

	if !val.IsWhollyKnown() {
		var ref string
		if bare, ok := hcl_adapter.BareModuleRef(output.Value); ok {
			ref = "module." + bare.Instance + "." + bare.Output
		}
		return plan.DeferredValue(ref), nil
	}

	raw, err := marshalValue(val)
	if err != nil {
		return plan.Value{}, fmt.Errorf("failed to encode workload output '%s': %w", output.Name, err)
	}
	return plan.KnownValue(raw), nil
}

// marshalValue encodes a wholly-known cty value as JSON.
func marshalValue(val cty.Value) (json.RawMessage, error) {
	raw, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
