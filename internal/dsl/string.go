package dsl

import (
	"github.com/roach88/pathql/internal/ops"
	"github.com/roach88/pathql/internal/queryir"
)

// String is a string expression.
type String struct{ Comparable[string] }

// StringOf wraps a string expression.
func StringOf(e queryir.Expr) String { return String{Comparable[string]{e}} }

// Str returns a string constant expression.
func Str(s string) String { return StringOf(queryir.NewConstant(s)) }

func (s String) str(id ops.ID, args ...queryir.Expr) String {
	return StringOf(operation(id, append([]queryir.Expr{s.e}, args...)...))
}

func (s String) pred(id ops.ID, args ...queryir.Expr) Bool {
	return Bool{operation(id, append([]queryir.Expr{s.e}, args...)...)}
}

// Like matches a pattern with % and _ wildcards.
func (s String) Like(pattern string) Bool { return s.pred(ops.Like, queryir.NewConstant(pattern)) }

// LikeEscape matches a pattern in which escape makes the following wildcard
// literal.
func (s String) LikeEscape(pattern string, escape rune) Bool {
	return s.pred(ops.LikeEscape, queryir.NewConstant(pattern), queryir.NewConstant(string(escape)))
}

// StartsWith tests for a prefix.
func (s String) StartsWith(prefix string) Bool {
	return s.pred(ops.StartsWith, queryir.NewConstant(prefix))
}

// EndsWith tests for a suffix.
func (s String) EndsWith(suffix string) Bool {
	return s.pred(ops.EndsWith, queryir.NewConstant(suffix))
}

// Contains tests for a substring.
func (s String) Contains(sub string) Bool {
	return s.pred(ops.StringContains, queryir.NewConstant(sub))
}

// Lower lower-cases s.
func (s String) Lower() String { return s.str(ops.Lower) }

// Upper upper-cases s.
func (s String) Upper() String { return s.str(ops.Upper) }

// Trim strips surrounding white space.
func (s String) Trim() String { return s.str(ops.Trim) }

// Length returns the length in characters.
func (s String) Length() Number[int32] {
	return NumberOf[int32](operation(ops.Length, s.e))
}

// Substring returns the suffix starting at the 0-based index begin.
func (s String) Substring(begin int32) String {
	return s.str(ops.Substr1, queryir.NewConstant(begin))
}

// SubstringRange returns characters [begin, end).
func (s String) SubstringRange(begin, end int32) String {
	return s.str(ops.Substr2, queryir.NewConstant(begin), queryir.NewConstant(end))
}

// Concat appends other string expressions.
func (s String) Concat(others ...String) String {
	args := make([]queryir.Expr, len(others))
	for i, o := range others {
		args[i] = o.e
	}
	return s.str(ops.Concat, args...)
}

// Append appends a constant suffix.
func (s String) Append(suffix string) String {
	return s.str(ops.Concat, queryir.NewConstant(suffix))
}

// Prepend prepends a constant prefix.
func (s String) Prepend(prefix string) String {
	return StringOf(operation(ops.Concat, queryir.NewConstant(prefix), s.e))
}

// Min is the smallest value.
func (s String) Min() String { return s.str(ops.Min) }

// Max is the largest value.
func (s String) Max() String { return s.str(ops.Max) }

// Coalesce substitutes v for null.
func (s String) Coalesce(v string) String { return s.str(ops.Coalesce, queryir.NewConstant(v)) }
