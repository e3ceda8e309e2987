// Package model provides the Go struct representation of the stackplan HCL
// configuration. Its core purpose is to create a strongly-typed, in-memory
// model of the template catalog and the workload composition by parsing the
// raw HCL files.
//
// # Core Concepts
//
// The model is built around a few key structures:
//
//   - Template: The reusable "definition" of a resource group. It defines a
//     contract, specifying the typed parameters it accepts (with their
//     constraints and defaults) and the typed outputs it produces (with the
//     sentinel value each output carries when the template is not realized).
//
//   - Workload: The root container for one composition. It aggregates the
//     workload's own parameter schema, its module instances, and the outputs
//     it exposes, parsed from one or more .hcl files.
//
//   - Module: An "instance" or "invocation" of a Template. It represents a
//     single node in the dependency graph and contains the specific
//     configuration (parameter bindings, inclusion predicate, version
//     constraint, explicit dependencies) for that invocation.
//
// Why store raw hcl.Expression fields?
//
// Most module-level fields are of type hcl.Expression rather than a concrete
// value. This is a deliberate design choice: it defers evaluation until
// resolution, when the workload's parameters have been validated and every
// module's inclusion and outputs are known. The model captures the author's
// intent as an expression, and the resolver turns that expression into a
// concrete value or a configuration error.
package model
