// This file defines the Template structure: the reusable contract of one
// deployable resource group. A Template never carries instance state; the
// same parameters always describe the same resource declaration.

package model

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/zclconf/go-cty/cty"

	"github.com/halcyard/stackplan/internal/hcl_adapter"
	"github.com/halcyard/stackplan/internal/schema"
)

// OutputDefinition is the format-agnostic representation of one declared
// template output. Sentinel is the value the output carries when the
// template instance is excluded from a composition.
type OutputDefinition struct {
	Name        string
	Type        cty.Type
	Description string
	Sentinel    cty.Value
}

// ResourceRef identifies one opaque target resource declared by a template.
// Only the labels are retained; resource bodies belong to the external
// materialization engine.
type ResourceRef struct {
	Type string
	Name string
}

// Template is the format-agnostic representation of a template manifest.
type Template struct {
	Type        string
	Version     *semver.Version
	Description string
	Parameters  map[string]*ParameterDefinition
	Outputs     map[string]*OutputDefinition
	Resources   []ResourceRef

	// Source is the manifest file the template was loaded from, kept for
	// error reporting.
	Source string
}

// NewTemplateFromHCL translates a raw template block into its model form,
// resolving parameter and output types and materializing every output's
// sentinel value.
func NewTemplateFromHCL(ctx context.Context, raw *schema.Template, filePath string) (*Template, error) {
	version, err := semver.NewVersion(raw.Version)
	if err != nil {
		return nil, fmt.Errorf("template '%s': invalid version %q: %w", raw.Type, raw.Version, err)
	}

	tpl := &Template{
		Type:        raw.Type,
		Version:     version,
		Description: raw.Description,
		Parameters:  make(map[string]*ParameterDefinition, len(raw.Parameters)),
		Outputs:     make(map[string]*OutputDefinition, len(raw.Outputs)),
		Source:      filePath,
	}

	for _, rawParam := range raw.Parameters {
		if _, exists := tpl.Parameters[rawParam.Name]; exists {
			return nil, fmt.Errorf("template '%s': duplicate parameter '%s'", raw.Type, rawParam.Name)
		}
		def, err := NewParameterFromHCL(ctx, rawParam)
		if err != nil {
			return nil, fmt.Errorf("template '%s': %w", raw.Type, err)
		}
		tpl.Parameters[rawParam.Name] = def
	}

	for _, rawOutput := range raw.Outputs {
		if _, exists := tpl.Outputs[rawOutput.Name]; exists {
			return nil, fmt.Errorf("template '%s': duplicate output '%s'", raw.Type, rawOutput.Name)
		}
		def, err := newOutputFromHCL(ctx, rawOutput)
		if err != nil {
			return nil, fmt.Errorf("template '%s': %w", raw.Type, err)
		}
		tpl.Outputs[rawOutput.Name] = def
	}

	for _, rawResource := range raw.Resources {
		tpl.Resources = append(tpl.Resources, ResourceRef{
			Type: rawResource.Type,
			Name: rawResource.Name,
		})
	}

	return tpl, nil
}

// newOutputFromHCL translates a raw output block. An omitted sentinel falls
// back to the type's empty value; `any`-typed outputs have no empty value
// and must declare one.
func newOutputFromHCL(ctx context.Context, raw *schema.Output) (*OutputDefinition, error) {
	ty, err := hcl_adapter.TypeExprToCtyType(ctx, raw.Type)
	if err != nil {
		return nil, fmt.Errorf("output '%s': invalid type: %w", raw.Name, err)
	}

	var sentinel cty.Value
	if rawSentinel := hcl_adapter.PresentExpr(raw.Sentinel); rawSentinel != nil {
		sentinel, err = hcl_adapter.LiteralValue(rawSentinel, ty)
		if err != nil {
			return nil, fmt.Errorf("output '%s': invalid sentinel: %w", raw.Name, err)
		}
	} else {
		sentinel, err = hcl_adapter.EmptyValue(ty)
		if err != nil {
			return nil, fmt.Errorf("output '%s': %w", raw.Name, err)
		}
	}

	return &OutputDefinition{
		Name:        raw.Name,
		Type:        ty,
		Description: raw.Description,
		Sentinel:    sentinel,
	}, nil
}

// SentinelOutputs returns the full sentinel output record for this template,
// the value set an excluded instance presents to its consumers.
func (t *Template) SentinelOutputs() map[string]cty.Value {
	outputs := make(map[string]cty.Value, len(t.Outputs))
	for name, def := range t.Outputs {
		outputs[name] = def.Sentinel
	}
	return outputs
}
