// Package convert reconciles the declared type of aggregate expressions with
// the native type the backends produce.
//
// Backends evaluate SUM over narrow columns and every COUNT as 64-bit values.
// Convert wraps such expressions in *queryir.Conversion nodes; evaluating a
// conversion calls Narrow, which applies checked narrowing.
package convert

import (
	"github.com/roach88/pathql/internal/ops"
	"github.com/roach88/pathql/internal/queryir"
)

// Convert returns e with conversion wrappers inserted.
//
// A root aggregate is wrapped directly. A projection root has only its
// offending arguments wrapped. Any other root is returned unchanged.
// Aliases are looked through; the wrapper goes inside the alias.
func Convert(e queryir.Expr) queryir.Expr {
	switch n := e.(type) {
	case *queryir.Projection:
		args := make([]queryir.Expr, len(n.Args))
		changed := false
		for i, a := range n.Args {
			args[i] = wrap(a)
			changed = changed || args[i] != a
		}
		if !changed {
			return e
		}
		return &queryir.Projection{Args: args}
	default:
		return wrap(e)
	}
}

// ConvertQuery returns a copy of q whose projection is converted.
func ConvertQuery(q *queryir.Query) *queryir.Query {
	out := *q
	out.Select = Convert(q.Select)
	return &out
}

func wrap(e queryir.Expr) queryir.Expr {
	switch n := e.(type) {
	case *queryir.Alias:
		src := wrap(n.Source)
		if src == n.Source {
			return e
		}
		return &queryir.Alias{Source: src, To: n.To}
	case *queryir.Operation:
		if NeedsConversion(n) {
			return queryir.NewConversion(n, n.DeclaredType)
		}
	}
	return e
}

// NeedsConversion reports whether an operation yields a native value of a
// different type than it declares: any COUNT aggregate, a SUM declared as a
// narrow numeric type, or narrow arithmetic over such a SUM.
func NeedsConversion(o *queryir.Operation) bool {
	return o.Op.IsCount() || narrowSum(o)
}

func narrowSum(e queryir.Expr) bool {
	o, ok := e.(*queryir.Operation)
	if !ok || !o.DeclaredType.IsNarrowNumeric() {
		return false
	}
	if o.Op.ID == ops.Sum {
		return true
	}
	if o.Op.Category != ops.CategoryMath {
		return false
	}
	for _, a := range o.Args {
		if narrowSum(a) {
			return true
		}
	}
	return false
}
