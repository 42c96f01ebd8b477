// Package ops defines the fixed operator catalogue shared by every backend.
//
// Each Operator carries its category, arity, per-position operand classes and
// a result rule that derives the declared result type from argument types.
// New operators extend the catalogue; expression node types never change.
package ops
