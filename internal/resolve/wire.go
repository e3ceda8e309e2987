// This file implements the dependency/output-wiring resolver: it builds the
// DAG of included module instances from implicit output references and
// explicit depends_on edges, enforces exclusion consistency, and produces
// the realization order.

package resolve

import (
	"context"
	"sort"

	"github.com/hashicorp/hcl/v2"

	"github.com/halcyard/stackplan/internal/ctxlog"
	"github.com/halcyard/stackplan/internal/dag"
	"github.com/halcyard/stackplan/internal/hcl_adapter"
	"github.com/halcyard/stackplan/internal/model"
	"github.com/halcyard/stackplan/internal/registry"
)

// wiring is the output of graph construction: a valid topological order over
// the included modules and, per module, its resolved in-graph dependencies.
type wiring struct {
	order []string
	deps  map[string][]string
}

// buildWiring constructs and orders the dependency graph. It returns the
// warnings produced by guarded references to excluded modules.
func buildWiring(ctx context.Context, workload *model.Workload, reg *registry.Registry, included, excluded []*model.Module) (*wiring, []Warning, error) {
	logger := ctxlog.FromContext(ctx)

	includedSet := make(map[string]*model.Module, len(included))
	for _, mod := range included {
		includedSet[mod.Name] = mod
	}
	excludedSet := make(map[string]*model.Module, len(excluded))
	for _, mod := range excluded {
		excludedSet[mod.Name] = mod
	}

	graph := dag.New()
	for _, mod := range included {
		graph.AddNode(mod.Name)
	}

	var warnings []Warning

	for _, mod := range included {
		for _, depName := range mod.DependsOn {
			target := workload.ModuleByName(depName)
			if target == nil {
				return nil, nil, &UndefinedReferenceError{
					Module: mod.Name,
					Field:  "depends_on",
					Ref:    depName,
					Detail: "the workload declares no module instance with this name",
				}
			}
			if target.Name == mod.Name {
				return nil, nil, &CyclicDependencyError{Members: []string{mod.Name}}
			}
			if _, isExcluded := excludedSet[target.Name]; isExcluded {
				// An ordering constraint against an absent module is vacuous.
				logger.Debug("Dropping depends_on edge to excluded module.", "module", mod.Name, "depends_on", depName)
				continue
			}
			if err := graph.AddEdge(target.Name, mod.Name); err != nil {
				return nil, nil, err
			}
		}

		for _, argName := range sortedKeys(mod.Arguments) {
			refWarnings, err := checkReferences(workload, reg, mod.Name, "parameters."+argName, mod.Arguments[argName], includedSet, excludedSet, graph)
			if err != nil {
				return nil, nil, err
			}
			warnings = append(warnings, refWarnings...)
		}
	}

	// Workload outputs consume module outputs too; they contribute no graph
	// nodes but their references obey the same rules.
	for _, output := range workload.Outputs {
		refWarnings, err := checkReferences(workload, reg, "", "outputs."+output.Name, output.Value, includedSet, excludedSet, nil)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, refWarnings...)
	}

	order, err := graph.TopoSort()
	if err != nil {
		if cycleErr, ok := err.(*dag.CycleError); ok {
			return nil, nil, &CyclicDependencyError{Members: cycleErr.Members}
		}
		return nil, nil, err
	}

	deps := make(map[string][]string, len(order))
	for _, name := range order {
		moduleDeps, err := graph.Dependencies(name)
		if err != nil {
			return nil, nil, err
		}
		sort.Strings(moduleDeps)
		deps[name] = moduleDeps
	}

	return &wiring{order: order, deps: deps}, warnings, nil
}

// checkReferences validates every module output reference in one expression:
// the instance and output must exist, references to excluded modules must be
// guarded (bare ones are exclusion inconsistencies, guarded ones warn), and
// references to included modules become graph edges when a consumer name is
// given.
func checkReferences(workload *model.Workload, reg *registry.Registry, consumer, field string, expr hcl.Expression, includedSet, excludedSet map[string]*model.Module, graph *dag.Graph) ([]Warning, error) {
	var warnings []Warning

	for _, ref := range hcl_adapter.ModuleRefs(expr) {
		target := workload.ModuleByName(ref.Instance)
		if target == nil {
			return nil, &UndefinedReferenceError{
				Module: consumer,
				Field:  field,
				Ref:    "module." + ref.Instance + "." + ref.Output,
				Detail: "the workload declares no module instance with this name",
			}
		}

		tpl := reg.Lookup(target.TemplateType)
		if _, declared := tpl.Outputs[ref.Output]; !declared {
			return nil, &UndefinedReferenceError{
				Module: consumer,
				Field:  field,
				Ref:    "module." + ref.Instance + "." + ref.Output,
				Detail: "template '" + tpl.Type + "' declares no output with this name",
			}
		}

		if consumer != "" && target.Name == consumer {
			return nil, &CyclicDependencyError{Members: []string{consumer}}
		}

		if _, isExcluded := excludedSet[target.Name]; isExcluded {
			if _, bare := hcl_adapter.BareModuleRef(expr); bare {
				return nil, &ExclusionInconsistencyError{
					Module:   consumer,
					Field:    field,
					Excluded: target.Name,
					Output:   ref.Output,
				}
			}
			warnings = append(warnings, Warning{
				Module:   consumer,
				Field:    field,
				Excluded: target.Name,
				Output:   ref.Output,
			})
			continue
		}

		if graph != nil {
			if err := graph.AddEdge(target.Name, consumer); err != nil {
				return nil, err
			}
		}
	}

	return warnings, nil
}
