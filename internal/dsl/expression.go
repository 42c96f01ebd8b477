package dsl

import (
	"github.com/roach88/pathql/internal/ops"
	"github.com/roach88/pathql/internal/queryir"
)

// Expression is implemented by every facade.
type Expression interface {
	Expr() queryir.Expr
}

// Raw wraps an arbitrary queryir expression as an Expression.
type Raw struct {
	E queryir.Expr
}

// Expr returns the wrapped expression.
func (r Raw) Expr() queryir.Expr { return r.E }

func exprs(es []Expression) []queryir.Expr {
	out := make([]queryir.Expr, len(es))
	for i, e := range es {
		out[i] = e.Expr()
	}
	return out
}

func operation(id ops.ID, args ...queryir.Expr) queryir.Expr {
	return queryir.MustOperation(id, args...)
}

func constant(v any) queryir.Expr {
	if e, ok := v.(Expression); ok {
		return e.Expr()
	}
	return queryir.NewConstant(v)
}

func constants[T any](vs []T) []queryir.Expr {
	out := make([]queryir.Expr, len(vs))
	for i, v := range vs {
		out[i] = queryir.NewConstant(v)
	}
	return out
}

// Bool is a boolean expression.
type Bool struct{ e queryir.Expr }

// BoolOf wraps a boolean expression.
func BoolOf(e queryir.Expr) Bool { return Bool{e} }

// True is the constant true.
func True() Bool { return Bool{queryir.NewConstant(true)} }

// Expr returns the wrapped expression.
func (b Bool) Expr() queryir.Expr { return b.e }

// And joins b with others.
func (b Bool) And(others ...Bool) Bool { return Bool{operation(ops.And, boolArgs(b, others)...)} }

// Or disjoins b with others.
func (b Bool) Or(others ...Bool) Bool { return Bool{operation(ops.Or, boolArgs(b, others)...)} }

// Not negates b.
func (b Bool) Not() Bool { return Bool{operation(ops.Not, b.e)} }

// Eq compares with a constant.
func (b Bool) Eq(v bool) Bool { return Bool{operation(ops.Eq, b.e, queryir.NewConstant(v))} }

// IsNull tests for null.
func (b Bool) IsNull() Bool { return isNull(b.e) }

// IsNotNull tests for non-null.
func (b Bool) IsNotNull() Bool { return isNotNull(b.e) }

// As aliases b.
func (b Bool) As(name string) Aliased { return as(b.e, name) }

func boolArgs(first Bool, rest []Bool) []queryir.Expr {
	out := make([]queryir.Expr, 0, 1+len(rest))
	out = append(out, first.e)
	for _, r := range rest {
		out = append(out, r.e)
	}
	return out
}

// AllOf joins predicates with AND. A single predicate is returned unchanged.
func AllOf(first Bool, rest ...Bool) Bool {
	if len(rest) == 0 {
		return first
	}
	return first.And(rest...)
}

// AnyOf joins predicates with OR. A single predicate is returned unchanged.
func AnyOf(first Bool, rest ...Bool) Bool {
	if len(rest) == 0 {
		return first
	}
	return first.Or(rest...)
}

func isNull(e queryir.Expr) Bool    { return Bool{operation(ops.IsNull, e)} }
func isNotNull(e queryir.Expr) Bool { return Bool{operation(ops.IsNotNull, e)} }

// Aliased is an expression bound to a name ("expr as name").
type Aliased struct{ a *queryir.Alias }

// Expr returns the alias node.
func (a Aliased) Expr() queryir.Expr { return a.a }

// Name returns the alias target.
func (a Aliased) Name() string { return a.a.To }

func as(e queryir.Expr, name string) Aliased {
	a, err := queryir.NewAlias(e, name)
	if err != nil {
		panic(err)
	}
	return Aliased{a}
}

// Order is one order-by entry.
type Order struct {
	e    Expression
	desc bool
}

// Asc orders ascending by e.
func Asc(e Expression) Order { return Order{e: e} }

// Desc orders descending by e.
func Desc(e Expression) Order { return Order{e: e, desc: true} }

// Coalesce returns the first non-null of its arguments.
func Coalesce[E Expression](first E, rest ...E) Raw {
	args := []queryir.Expr{first.Expr()}
	for _, r := range rest {
		args = append(args, r.Expr())
	}
	return Raw{operation(ops.Coalesce, args...)}
}

// NullIf yields null when a equals b, otherwise a.
func NullIf(a, b Expression) Raw {
	return Raw{operation(ops.NullIf, a.Expr(), b.Expr())}
}

// CountAll counts rows.
func CountAll() Number[int64] {
	return Number[int64]{Comparable[int64]{operation(ops.CountAll)}}
}
