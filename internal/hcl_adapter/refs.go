// This file analyzes HCL traversals to recognize the two reference forms a
// workload expression may use: `param.<name>` for workload parameters and
// `module.<instance>.<output>` for another module instance's output.

package hcl_adapter

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// ModuleRef identifies a reference to a module instance's declared output.
type ModuleRef struct {
	Instance string
	Output   string
}

// ParseModuleTraversal analyzes an HCL traversal to extract a module output
// reference. It returns false for traversals rooted elsewhere.
func ParseModuleTraversal(traversal hcl.Traversal) (*ModuleRef, bool) {
	if len(traversal) < 3 || traversal.RootName() != "module" {
		return nil, false
	}

	instanceAttr, instanceOk := traversal[1].(hcl.TraverseAttr)
	outputAttr, outputOk := traversal[2].(hcl.TraverseAttr)
	if !instanceOk || !outputOk {
		return nil, false
	}

	return &ModuleRef{
		Instance: instanceAttr.Name,
		Output:   outputAttr.Name,
	}, true
}

// ParseParamTraversal analyzes an HCL traversal to extract a workload
// parameter reference of the form `param.<name>`.
func ParseParamTraversal(traversal hcl.Traversal) (string, bool) {
	if len(traversal) < 2 || traversal.RootName() != "param" {
		return "", false
	}

	nameAttr, ok := traversal[1].(hcl.TraverseAttr)
	if !ok {
		return "", false
	}
	return nameAttr.Name, true
}

// BareModuleRef reports whether the expression is exactly a module output
// traversal with no surrounding computation. A bare reference to an excluded
// module cannot fall back to a sentinel-aware branch, so callers treat it
// more strictly than a guarded one.
func BareModuleRef(expr hcl.Expression) (*ModuleRef, bool) {
	syntaxExpr, ok := expr.(*hclsyntax.ScopeTraversalExpr)
	if !ok {
		return nil, false
	}
	return ParseModuleTraversal(syntaxExpr.Traversal)
}

// ModuleRefs returns every module output reference appearing anywhere in the
// expression, in traversal order.
func ModuleRefs(expr hcl.Expression) []*ModuleRef {
	if expr == nil {
		return nil
	}
	var refs []*ModuleRef
	for _, traversal := range expr.Variables() {
		if ref, ok := ParseModuleTraversal(traversal); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// ParamRefs returns every workload parameter name referenced anywhere in the
// expression, in traversal order.
func ParamRefs(expr hcl.Expression) []string {
	if expr == nil {
		return nil
	}
	var names []string
	for _, traversal := range expr.Variables() {
		if name, ok := ParseParamTraversal(traversal); ok {
			names = append(names, name)
		}
	}
	return names
}
