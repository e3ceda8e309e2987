// Package resolve turns a workload composition, a template catalog, and a
// parameter-value bundle into a realization plan.
//
// Resolution is a pure, synchronous computation over the in-memory model: no
// I/O, no shared mutable state, no dependence on evaluation order across
// unrelated module subtrees. Identical inputs always produce a
// byte-identical plan. It proceeds in fixed stages:
//
//  1. Workload parameter validation: bundle values are converted to their
//     declared types, checked against constraints, and defaults applied.
//  2. Conditional inclusion: each module's `enabled` predicate is evaluated
//     over the workload parameters, partitioning the module set.
//  3. Dependency wiring: implicit edges from output references and explicit
//     `depends_on` edges form a DAG; references are checked for existence,
//     exclusion consistency is enforced, and the realization order is a
//     topological sort with lexical tie-breaks.
//  4. Module parameter validation: every binding is evaluated (excluded
//     producers contribute their sentinel outputs, included producers
//     contribute deferred placeholders), converted, defaulted, and checked.
//
// Any failure aborts the whole resolution; errors carry the module id,
// field path, and the reference or constraint involved.
package resolve
