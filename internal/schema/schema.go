package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// --- Template Manifest Schemas ---

// Parameter defines a single typed parameter of a template or workload,
// together with its declared constraints. Constraint values are captured as
// raw expressions because their final type depends on the parameter's own
// declared type, which is only known after type translation.
type Parameter struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
	Allowed     hcl.Expression `hcl:"allowed,optional"`
	Min         *float64       `hcl:"min,optional"`
	Max         *float64       `hcl:"max,optional"`
	MinLength   *int           `hcl:"min_length,optional"`
	MaxLength   *int           `hcl:"max_length,optional"`
}

// Output defines a single output value produced by a template, including the
// sentinel value the output carries when the template instance is excluded.
type Output struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Sentinel    hcl.Expression `hcl:"sentinel,optional"`
}

// Resource represents an opaque target-resource block inside a template.
// Only its labels are interpreted; the body belongs to the external
// materialization engine.
type Resource struct {
	Type string   `hcl:"resource_type,label"`
	Name string   `hcl:"resource_name,label"`
	Body hcl.Body `hcl:",remain"`
}

// Template represents a `template` block from a manifest file: the reusable
// declaration of one or more target resources plus its parameter and output
// contract.
type Template struct {
	Type        string       `hcl:"type,label"`
	Version     string       `hcl:"version"`
	Description string       `hcl:"description,optional"`
	Parameters  []*Parameter `hcl:"parameter,block"`
	Outputs     []*Output    `hcl:"output,block"`
	Resources   []*Resource  `hcl:"resource,block"`
}

// TemplateFile represents the top-level structure of a template manifest file.
type TemplateFile struct {
	Templates []*Template `hcl:"template,block"`
	Body      hcl.Body    `hcl:",remain"`
}

// --- Workload Composition Schemas ---

// ModuleParams represents the content of the 'parameters' block within a
// module instance. Attributes are decoded later against the template's
// parameter schema.
type ModuleParams struct {
	Body hcl.Body `hcl:",remain"`
}

// Module represents a `module` block from a workload file. It is a configured
// instance of a declared template.
type Module struct {
	TemplateType string         `hcl:"template_type,label"`
	Name         string         `hcl:"instance_name,label"`
	Enabled      hcl.Expression `hcl:"enabled,optional"`
	Version      string         `hcl:"version,optional"`
	Parameters   *ModuleParams  `hcl:"parameters,block"`
	DependsOn    []string       `hcl:"depends_on,optional"`
}

// WorkloadOutput represents a top-level `output` block of a workload.
type WorkloadOutput struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Value       hcl.Expression `hcl:"value"`
}

// WorkloadFile represents the top-level structure of a workload composition
// file, containing the workload's own parameter schema, its module instances,
// and its exposed outputs.
type WorkloadFile struct {
	Parameters []*Parameter      `hcl:"parameter,block"`
	Modules    []*Module         `hcl:"module,block"`
	Outputs    []*WorkloadOutput `hcl:"output,block"`
	Body       hcl.Body          `hcl:",remain"`
}
