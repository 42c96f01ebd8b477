package dsl

import (
	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/ops"
	"github.com/roach88/pathql/internal/queryir"
)

// Numeric is the set of Go types a Number facade may carry.
type Numeric interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int | ~float32 | ~float64
}

// Number is a numeric expression whose declared Go type is T.
type Number[T Numeric] struct{ Comparable[T] }

// NumberOf wraps a numeric expression.
func NumberOf[T Numeric](e queryir.Expr) Number[T] { return Number[T]{Comparable[T]{e}} }

// Num returns a numeric constant expression.
func Num[T Numeric](v T) Number[T] { return NumberOf[T](queryir.NewConstant(v)) }

// typed builds an operation declared as T, the way a metamodel fixes the type
// of arithmetic over its field.
func typed[T Numeric](id ops.ID, args ...queryir.Expr) Number[T] {
	op, err := queryir.NewTypedOperation(id, ir.TypeFor[T](), args...)
	if err != nil {
		panic(err)
	}
	return NumberOf[T](op)
}

func float(id ops.ID, args ...queryir.Expr) Number[float64] {
	return NumberOf[float64](operation(id, args...))
}

// Add is n + v.
func (n Number[T]) Add(v T) Number[T] { return typed[T](ops.Add, n.e, queryir.NewConstant(v)) }

// Sub is n - v.
func (n Number[T]) Sub(v T) Number[T] { return typed[T](ops.Sub, n.e, queryir.NewConstant(v)) }

// Mult is n * v.
func (n Number[T]) Mult(v T) Number[T] { return typed[T](ops.Mult, n.e, queryir.NewConstant(v)) }

// Div is n / v.
func (n Number[T]) Div(v T) Number[T] { return typed[T](ops.Div, n.e, queryir.NewConstant(v)) }

// Mod is n % v.
func (n Number[T]) Mod(v T) Number[T] { return typed[T](ops.Mod, n.e, queryir.NewConstant(v)) }

// AddExpr is n + o.
func (n Number[T]) AddExpr(o Number[T]) Number[T] { return typed[T](ops.Add, n.e, o.e) }

// SubExpr is n - o.
func (n Number[T]) SubExpr(o Number[T]) Number[T] { return typed[T](ops.Sub, n.e, o.e) }

// MultExpr is n * o.
func (n Number[T]) MultExpr(o Number[T]) Number[T] { return typed[T](ops.Mult, n.e, o.e) }

// DivExpr is n / o.
func (n Number[T]) DivExpr(o Number[T]) Number[T] { return typed[T](ops.Div, n.e, o.e) }

// Negate is -n.
func (n Number[T]) Negate() Number[T] { return typed[T](ops.Negate, n.e) }

// Abs is |n|.
func (n Number[T]) Abs() Number[T] { return typed[T](ops.Abs, n.e) }

// Floor rounds down.
func (n Number[T]) Floor() Number[T] { return typed[T](ops.Floor, n.e) }

// Ceil rounds up.
func (n Number[T]) Ceil() Number[T] { return typed[T](ops.Ceil, n.e) }

// Round rounds half away from zero.
func (n Number[T]) Round() Number[T] { return typed[T](ops.Round, n.e) }

// Sqrt is the square root.
func (n Number[T]) Sqrt() Number[float64] { return float(ops.Sqrt, n.e) }

// Power is n raised to exponent.
func (n Number[T]) Power(exponent float64) Number[float64] {
	return float(ops.Power, n.e, queryir.NewConstant(exponent))
}

// Log is the logarithm of n in base.
func (n Number[T]) Log(base float64) Number[float64] {
	return float(ops.Log, n.e, queryir.NewConstant(base))
}

// Cot is the cotangent.
func (n Number[T]) Cot() Number[float64] { return float(ops.Cot, n.e) }

// Coth is the hyperbolic cotangent.
func (n Number[T]) Coth() Number[float64] { return float(ops.Coth, n.e) }

// Degrees converts radians to degrees.
func (n Number[T]) Degrees() Number[float64] { return float(ops.Degrees, n.e) }

// Radians converts degrees to radians.
func (n Number[T]) Radians() Number[float64] { return float(ops.Radians, n.e) }

// Sum is the aggregate sum, declared as T.
func (n Number[T]) Sum() Number[T] { return typed[T](ops.Sum, n.e) }

// Avg is the aggregate mean, always float64.
func (n Number[T]) Avg() Number[float64] { return float(ops.Avg, n.e) }

// Min is the aggregate minimum.
func (n Number[T]) Min() Number[T] { return typed[T](ops.Min, n.e) }

// Max is the aggregate maximum.
func (n Number[T]) Max() Number[T] { return typed[T](ops.Max, n.e) }

// Coalesce substitutes v for null.
func (n Number[T]) Coalesce(v T) Number[T] {
	return typed[T](ops.Coalesce, n.e, queryir.NewConstant(v))
}
