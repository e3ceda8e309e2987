// This file defines the Workload structure, the root container for one
// composition, and the loader that aggregates it from the user's .hcl files.
//
// Why have a Workload aggregate?
//
// A composition author may split parameter declarations and module instances
// across several files. The loader discovers all of them and consolidates
// them into a single unified view, so the resolver can operate on the
// complete module set and resolve dependencies that span files.

package model

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/halcyard/stackplan/internal/ctxlog"
	"github.com/halcyard/stackplan/internal/fsutil"
	"github.com/halcyard/stackplan/internal/hcl_adapter"
	"github.com/halcyard/stackplan/internal/schema"
)

// Module is the format-agnostic representation of a `module` block: one
// configured instance of a template within a workload.
type Module struct {
	TemplateType string
	Name         string

	// Enabled is the inclusion predicate. A nil expression means the
	// instance is always included.
	Enabled hcl.Expression

	// VersionConstraint, when non-nil, must match the template's declared
	// version at resolution time.
	VersionConstraint *semver.Constraints

	// Arguments maps template parameter names to their binding expressions.
	Arguments map[string]hcl.Expression

	// DependsOn lists instance names this module must be realized after,
	// in addition to any dependencies implied by its argument expressions.
	DependsOn []string

	// Source is the workload file the module was declared in.
	Source string
}

// WorkloadOutput is one value the workload exposes in the realization plan.
type WorkloadOutput struct {
	Name        string
	Description string
	Value       hcl.Expression
}

// Workload represents one composition: its parameter schema, its module
// instances in declaration order, and its exposed outputs.
type Workload struct {
	Parameters map[string]*ParameterDefinition
	Modules    []*Module
	Outputs    []*WorkloadOutput
}

// ModuleByName returns the module instance with the given name, or nil.
func (w *Workload) ModuleByName(name string) *Module {
	for _, mod := range w.Modules {
		if mod.Name == name {
			return mod
		}
	}
	return nil
}

// LoadWorkload finds and parses all HCL files under the given path into a
// single Workload model.
func LoadWorkload(ctx context.Context, workloadPath string) (*Workload, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading workload from path", "path", workloadPath)

	files, err := fsutil.FindFilesByExtension(workloadPath, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find workload files in %s: %w", workloadPath, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl workload files found in %s", workloadPath)
	}

	workload := &Workload{
		Parameters: make(map[string]*ParameterDefinition),
	}

	parser := hclparse.NewParser()
	for _, file := range files {
		if err := workload.mergeFile(ctx, file, parser); err != nil {
			return nil, err
		}
	}

	logger.Debug("Workload loaded.",
		"parameters", len(workload.Parameters),
		"modules", len(workload.Modules),
		"outputs", len(workload.Outputs),
	)
	return workload, nil
}

// mergeFile parses one workload file and folds its declarations into the
// aggregate, rejecting duplicate names across files.
func (w *Workload) mergeFile(ctx context.Context, filePath string, parser *hclparse.Parser) error {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
	}

	var parsedFile schema.WorkloadFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsedFile)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
	}

	for _, rawParam := range parsedFile.Parameters {
		if _, exists := w.Parameters[rawParam.Name]; exists {
			return fmt.Errorf("%s: duplicate workload parameter '%s'", filePath, rawParam.Name)
		}
		def, err := NewParameterFromHCL(ctx, rawParam)
		if err != nil {
			return fmt.Errorf("%s: %w", filePath, err)
		}
		w.Parameters[rawParam.Name] = def
	}

	for _, rawModule := range parsedFile.Modules {
		if w.ModuleByName(rawModule.Name) != nil {
			return fmt.Errorf("%s: duplicate module instance '%s'", filePath, rawModule.Name)
		}
		mod, err := newModuleFromHCL(rawModule, filePath)
		if err != nil {
			return fmt.Errorf("%s: %w", filePath, err)
		}
		w.Modules = append(w.Modules, mod)
	}

	for _, rawOutput := range parsedFile.Outputs {
		for _, existing := range w.Outputs {
			if existing.Name == rawOutput.Name {
				return fmt.Errorf("%s: duplicate workload output '%s'", filePath, rawOutput.Name)
			}
		}
		w.Outputs = append(w.Outputs, &WorkloadOutput{
			Name:        rawOutput.Name,
			Description: rawOutput.Description,
			Value:       rawOutput.Value,
		})
	}

	return nil
}

// newModuleFromHCL translates a raw module block into its model form.
func newModuleFromHCL(raw *schema.Module, filePath string) (*Module, error) {
	mod := &Module{
		TemplateType: raw.TemplateType,
		Name:         raw.Name,
		Enabled:      hcl_adapter.PresentExpr(raw.Enabled),
		DependsOn:    raw.DependsOn,
		Source:       filePath,
		Arguments:    map[string]hcl.Expression{},
	}

	if raw.Version != "" {
		constraint, err := semver.NewConstraint(raw.Version)
		if err != nil {
			return nil, fmt.Errorf("module '%s': invalid version constraint %q: %w", raw.Name, raw.Version, err)
		}
		mod.VersionConstraint = constraint
	}

	if raw.Parameters != nil {
		attrs, diags := raw.Parameters.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("module '%s': invalid parameters block: %w", raw.Name, diags)
		}
		for name, attr := range attrs {
			mod.Arguments[name] = attr.Expr
		}
	}

	return mod, nil
}
