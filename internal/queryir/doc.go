// Package queryir provides the typed expression model shared by every pathql
// backend.
//
// A query is built once as an immutable tree of Expr nodes and then either
// serialized to a textual dialect (querysql) or evaluated directly over
// in-memory values (engine):
//
//	[dsl | alias | querydoc] → [queryir tree] → [convert] → [querysql]
//	                                                      → [engine]
//
// SEALED INTERFACE:
//
// Expr is sealed with the marker method pattern. Only types in this package
// implement it, so backends can switch exhaustively:
//
//	switch e := expr.(type) {
//	case *Constant:
//	case *Path:
//	case *Operation:
//	case *Alias:
//	case *SubQuery:
//	case *Projection:
//	case *Conversion:
//	}
//
// PATHS:
//
// A Path identifies a position reachable by navigation from a root variable.
// Its PathMetadata is a parent chain rendered as "cat.mate.name",
// "cat.kittens[0]" or "cat.kittensByName['Tom']". Entity paths expose child
// factories (StringChild, EntityChild, CollectionChild, ...) which is how
// metamodel types walk into their fields.
//
// OPERATIONS:
//
// An Operation applies a catalogue operator (package ops) to ordered
// arguments. NewOperation checks arity and operand classes and derives the
// declared type from the operator's result rule. Construction errors fail fast
// as *ConstructionError.
//
// CRITICAL PATTERNS:
//
// Immutability: nodes are never mutated after construction. Trees may be
// shared and evaluated concurrently without locking. Transform returns new
// nodes and leaves its input untouched.
//
// Determinism: Document and Fingerprint depend only on tree structure, so
// identical trees always hash and serialize identically.
package queryir
