// Package querysql renders expression trees into textual query languages.
//
// A Serializer walks a queryir tree and substitutes each operation into the
// template its dialect registers for the operator. Templates carry a
// precedence, so lower-precedence sub-expressions are parenthesized and
// function-style templates never wrap their arguments.
//
// Key constraints:
//   - Output is deterministic: identical trees give byte-identical strings
//   - Argument order is kept exactly as built
//   - An operator without a template is a TemplateError (incomplete dialect)
//   - In ModeParams constants are never interpolated; they become
//     placeholders and are returned as parameters
package querysql
