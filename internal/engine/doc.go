// Package engine evaluates pathql expression trees directly over in-memory
// values.
//
// The package has three layers:
//
// Function library (functions.go, aggregate.go, arith.go, datetime.go):
// pure functions over plain Go values. Aggregate, Like, LikeEscape,
// Coalesce, NullIf, LeftJoin, Get and DateField are usable on their own.
//
// Evaluator (eval.go): computes any queryir.Expr in an Env of variable
// bindings. Sub-queries range over the Env's source collections and see the
// enclosing bindings.
//
// Executor (executor.go): runs a queryir.Query over Sources with nested-loop
// joins, grouping, ordering and paging.
//
// CRITICAL PATTERNS:
//
// Fold kind: SUM, MIN and MAX use the arithmetic of the first element of
// the sequence. AVG is always float64, COUNT always int64.
//
// Native results: arithmetic yields int64, float64 or decimal.Decimal
// regardless of declared operand width. Conversion nodes (package convert)
// narrow results back to their declared types.
//
// Determinism: rows are produced in source order, groups in order of first
// appearance, and sorting is stable. Map-valued collections iterate in key
// order.
package engine
