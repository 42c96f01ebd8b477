// Package querydoc reads and writes query documents: YAML renderings of
// expression trees and queries used by the CLI and the scenario harness.
//
// The node shapes are the canonical document forms of package queryir:
//
//	{const: v, type: t}
//	{path: cat.name}
//	{op: EQ, args: [...]}
//	{alias: e, as: name}
//	{sub: {select: e, from: [...], where: [...]}}
//	{projection: [...]}
//	{convert: e, to: t}
//
// A bare scalar is a constant whose type is inferred from the YAML value.
// Paths resolve against a schema.Registry; the root variable is bound by a
// "vars" entry, by a typed root path ({path: cat, type: entity<Cat>}) or by
// an alias over an entity-valued source.
//
// Key constraints:
//   - Decoding never guesses: unknown keys, operators, variables and
//     properties are errors
//   - Typed constants are narrowed with convert.Narrow; overflow is an error
//   - Date-time text is parsed with dateparse in UTC
package querydoc
