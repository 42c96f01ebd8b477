package dsl

import (
	"github.com/roach88/pathql/internal/ops"
	"github.com/roach88/pathql/internal/queryir"
)

// Comparable is an ordered expression with Go value type T. String, Number
// and DateTime embed it; use it directly for other ordered types such as
// decimal.Decimal.
type Comparable[T any] struct{ e queryir.Expr }

// ComparableOf wraps an ordered expression.
func ComparableOf[T any](e queryir.Expr) Comparable[T] { return Comparable[T]{e} }

// Expr returns the wrapped expression.
func (c Comparable[T]) Expr() queryir.Expr { return c.e }

func (c Comparable[T]) cmp(id ops.ID, v any) Bool {
	return Bool{operation(id, c.e, constant(v))}
}

// Eq compares with a constant or, when v is an Expression, with it.
func (c Comparable[T]) Eq(v T) Bool { return c.cmp(ops.Eq, v) }

// Ne is the negation of Eq.
func (c Comparable[T]) Ne(v T) Bool { return c.cmp(ops.Ne, v) }

// Lt is c < v.
func (c Comparable[T]) Lt(v T) Bool { return c.cmp(ops.Lt, v) }

// Gt is c > v.
func (c Comparable[T]) Gt(v T) Bool { return c.cmp(ops.Gt, v) }

// Loe is c <= v.
func (c Comparable[T]) Loe(v T) Bool { return c.cmp(ops.Loe, v) }

// Goe is c >= v.
func (c Comparable[T]) Goe(v T) Bool { return c.cmp(ops.Goe, v) }

// EqExpr compares with another expression.
func (c Comparable[T]) EqExpr(o Expression) Bool { return c.cmp(ops.Eq, o) }

// NeExpr compares with another expression.
func (c Comparable[T]) NeExpr(o Expression) Bool { return c.cmp(ops.Ne, o) }

// LtExpr compares with another expression.
func (c Comparable[T]) LtExpr(o Expression) Bool { return c.cmp(ops.Lt, o) }

// GtExpr compares with another expression.
func (c Comparable[T]) GtExpr(o Expression) Bool { return c.cmp(ops.Gt, o) }

// LoeExpr compares with another expression.
func (c Comparable[T]) LoeExpr(o Expression) Bool { return c.cmp(ops.Loe, o) }

// GoeExpr compares with another expression.
func (c Comparable[T]) GoeExpr(o Expression) Bool { return c.cmp(ops.Goe, o) }

// Between is lo <= c <= hi.
func (c Comparable[T]) Between(lo, hi T) Bool {
	return Bool{operation(ops.Between, c.e, queryir.NewConstant(lo), queryir.NewConstant(hi))}
}

// In tests membership in a constant list.
func (c Comparable[T]) In(vs ...T) Bool {
	return Bool{operation(ops.In, append([]queryir.Expr{c.e}, constants(vs)...)...)}
}

// NotIn is the negation of In.
func (c Comparable[T]) NotIn(vs ...T) Bool {
	return Bool{operation(ops.NotIn, append([]queryir.Expr{c.e}, constants(vs)...)...)}
}

// InSub tests membership in a sub-query result.
func (c Comparable[T]) InSub(s Sub) Bool {
	return Bool{operation(ops.In, c.e, s.Expr())}
}

// IsNull tests for null.
func (c Comparable[T]) IsNull() Bool { return isNull(c.e) }

// IsNotNull tests for non-null.
func (c Comparable[T]) IsNotNull() Bool { return isNotNull(c.e) }

// Count counts non-null values.
func (c Comparable[T]) Count() Number[int64] {
	return Number[int64]{Comparable[int64]{operation(ops.Count, c.e)}}
}

// CountDistinct counts distinct non-null values.
func (c Comparable[T]) CountDistinct() Number[int64] {
	return Number[int64]{Comparable[int64]{operation(ops.CountDistinct, c.e)}}
}

// As aliases c.
func (c Comparable[T]) As(name string) Aliased { return as(c.e, name) }
