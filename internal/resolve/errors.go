// This file defines the resolver's error taxonomy. Every error here is a
// configuration-time error: it is detected statically during resolution and
// aborts the whole composition before any materialization could be
// attempted. There is no retryable category at this layer.

package resolve

import (
	"fmt"
	"strings"
)

// UndefinedReferenceError reports a predicate or binding that references a
// parameter, module instance, or output that does not exist.
type UndefinedReferenceError struct {
	// Module is the consuming module instance, empty for workload scope.
	Module string
	// Field is the path of the offending field, e.g. "parameters.subnet_id".
	Field string
	// Ref is the reference that failed to resolve.
	Ref string
	// Detail explains what was expected.
	Detail string
}

// Error implements the error interface.
func (e *UndefinedReferenceError) Error() string {
	return fmt.Sprintf("undefined reference in %s: '%s': %s", scopedField(e.Module, e.Field), e.Ref, e.Detail)
}

// ConstraintViolationError reports a value that fails a declared type,
// range, length, allowed-set, or version constraint.
type ConstraintViolationError struct {
	Module    string
	Parameter string
	Value     string
	Detail    string
}

// Error implements the error interface.
func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("constraint violation in %s: value %s: %s", scopedField(e.Module, e.Parameter), e.Value, e.Detail)
}

// MissingParameterError reports a required parameter that has no default and
// was not supplied.
type MissingParameterError struct {
	// Module is the module instance missing a binding, empty when the
	// workload's own parameter is missing from the bundle.
	Module    string
	Parameter string
}

// Error implements the error interface.
func (e *MissingParameterError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("missing required parameter '%s': not present in the parameter bundle and no default is declared", e.Parameter)
	}
	return fmt.Sprintf("module '%s': missing required parameter '%s': not bound and no default is declared", e.Module, e.Parameter)
}

// CyclicDependencyError reports that the module dependency graph contains a
// cycle. Members lists every module instance on the cycle.
type CyclicDependencyError struct {
	Members []string
}

// Error implements the error interface.
func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency between module instances: %s", strings.Join(e.Members, ", "))
}

// ExclusionInconsistencyError reports an included module (or workload
// output) that consumes a real output of an excluded module with no
// fallback: the binding is a bare output reference, so the consumer cannot
// have accounted for the exclusion.
type ExclusionInconsistencyError struct {
	Module   string
	Field    string
	Excluded string
	Output   string
}

// Error implements the error interface.
func (e *ExclusionInconsistencyError) Error() string {
	return fmt.Sprintf(
		"exclusion inconsistency in %s: module '%s' is excluded but its output '%s' is consumed directly; guard the reference or supply a fallback",
		scopedField(e.Module, e.Field), e.Excluded, e.Output,
	)
}

// Warning flags a guarded reference to an excluded module's output. The
// expression was evaluated against the module's sentinel outputs, which is
// the established "never hit when excluded" idiom, but the author should
// confirm the fallback is intentional.
type Warning struct {
	Module   string
	Field    string
	Excluded string
	Output   string
}

// String renders the warning for logs.
func (w Warning) String() string {
	return fmt.Sprintf(
		"%s references output '%s' of excluded module '%s'; its sentinel value was substituted",
		scopedField(w.Module, w.Field), w.Output, w.Excluded,
	)
}

// scopedField renders "module '<id>' field <path>" or "workload field
// <path>" for error messages.
func scopedField(module, field string) string {
	if module == "" {
		return fmt.Sprintf("workload field '%s'", field)
	}
	return fmt.Sprintf("module '%s' field '%s'", module, field)
}
