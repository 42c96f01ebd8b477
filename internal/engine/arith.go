package engine

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/ops"
)

// numericKind picks the arithmetic for a pair of operands: decimal wins over
// floating, floating over integral.
func numericKind(a, b any) foldKind {
	switch {
	case ir.IsDecimalValue(a) || ir.IsDecimalValue(b):
		return foldDecimal
	case ir.IsFloatingValue(a) || ir.IsFloatingValue(b):
		return foldFloating
	}
	return foldIntegral
}

// Arithmetic applies a binary math operator. Integral operands compute in
// int64, floating in float64, decimal exactly. Null operands yield null.
func Arithmetic(op ops.ID, a, b any) (any, error) {
	if a == nil || b == nil {
		return nil, nil
	}
	if !ir.IsNumber(a) {
		return nil, evalErr(op, a, ErrOperandType)
	}
	if !ir.IsNumber(b) {
		return nil, evalErr(op, b, ErrOperandType)
	}
	switch op {
	case ops.Power:
		x, _ := ir.AsFloat64(a)
		y, _ := ir.AsFloat64(b)
		return math.Pow(x, y), nil
	case ops.Log:
		x, _ := ir.AsFloat64(a)
		base, _ := ir.AsFloat64(b)
		return math.Log(x) / math.Log(base), nil
	}

	switch numericKind(a, b) {
	case foldDecimal:
		x, _ := ir.AsDecimal(a)
		y, _ := ir.AsDecimal(b)
		return decimalOp(op, x, y)
	case foldFloating:
		x, _ := ir.AsFloat64(a)
		y, _ := ir.AsFloat64(b)
		return floatOp(op, x, y)
	default:
		x, _ := ir.AsInt64(a)
		y, _ := ir.AsInt64(b)
		return intOp(op, x, y)
	}
}

func intOp(op ops.ID, x, y int64) (any, error) {
	switch op {
	case ops.Add:
		return x + y, nil
	case ops.Sub:
		return x - y, nil
	case ops.Mult:
		return x * y, nil
	case ops.Div, ops.Mod:
		if y == 0 {
			return nil, evalErr(op, x, ErrDivisionByZero)
		}
		if op == ops.Div {
			return x / y, nil
		}
		return x % y, nil
	}
	return nil, evalErr(op, x, ErrUnknownOperator)
}

func floatOp(op ops.ID, x, y float64) (any, error) {
	switch op {
	case ops.Add:
		return x + y, nil
	case ops.Sub:
		return x - y, nil
	case ops.Mult:
		return x * y, nil
	case ops.Div:
		return x / y, nil
	case ops.Mod:
		return math.Mod(x, y), nil
	}
	return nil, evalErr(op, x, ErrUnknownOperator)
}

func decimalOp(op ops.ID, x, y decimal.Decimal) (any, error) {
	switch op {
	case ops.Add:
		return x.Add(y), nil
	case ops.Sub:
		return x.Sub(y), nil
	case ops.Mult:
		return x.Mul(y), nil
	case ops.Div, ops.Mod:
		if y.IsZero() {
			return nil, evalErr(op, x, ErrDivisionByZero)
		}
		if op == ops.Div {
			return x.Div(y), nil
		}
		return x.Mod(y), nil
	}
	return nil, evalErr(op, x, ErrUnknownOperator)
}

var floatFns = map[ops.ID]func(float64) float64{
	ops.Sqrt:    math.Sqrt,
	ops.Cot:     func(x float64) float64 { return 1 / math.Tan(x) },
	ops.Coth:    func(x float64) float64 { return math.Cosh(x) / math.Sinh(x) },
	ops.Degrees: func(x float64) float64 { return x * 180 / math.Pi },
	ops.Radians: func(x float64) float64 { return x * math.Pi / 180 },
}

// Unary applies a one-argument math operator. NEGATE, ABS, FLOOR, CEIL and
// ROUND keep the operand's arithmetic; the rest compute in float64.
// ROUND rounds half away from zero.
func Unary(op ops.ID, a any) (any, error) {
	if a == nil {
		return nil, nil
	}
	if !ir.IsNumber(a) {
		return nil, evalErr(op, a, ErrOperandType)
	}
	if f, ok := floatFns[op]; ok {
		x, _ := ir.AsFloat64(a)
		return f(x), nil
	}
	switch kindOf(a) {
	case foldDecimal:
		d, _ := ir.AsDecimal(a)
		switch op {
		case ops.Negate:
			return d.Neg(), nil
		case ops.Abs:
			return d.Abs(), nil
		case ops.Floor:
			return d.Floor(), nil
		case ops.Ceil:
			return d.Ceil(), nil
		case ops.Round:
			return d.Round(0), nil
		}
	case foldFloating:
		x, _ := ir.AsFloat64(a)
		switch op {
		case ops.Negate:
			return -x, nil
		case ops.Abs:
			return math.Abs(x), nil
		case ops.Floor:
			return math.Floor(x), nil
		case ops.Ceil:
			return math.Ceil(x), nil
		case ops.Round:
			return math.Round(x), nil
		}
	default:
		i, _ := ir.AsInt64(a)
		switch op {
		case ops.Negate:
			return -i, nil
		case ops.Abs:
			if i < 0 {
				return -i, nil
			}
			return i, nil
		case ops.Floor, ops.Ceil, ops.Round:
			return i, nil
		}
	}
	return nil, evalErr(op, a, ErrUnknownOperator)
}
