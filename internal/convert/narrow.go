package convert

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/roach88/pathql/internal/ir"
)

// OverflowError reports a value that does not fit its declared type.
type OverflowError struct {
	Value  any
	Target *ir.Type
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("value %v (%T) does not fit %s", e.Value, e.Value, e.Target)
}

// IsOverflow reports whether err is an OverflowError.
func IsOverflow(err error) bool {
	var target *OverflowError
	return errors.As(err, &target)
}

var intRanges = map[ir.Kind][2]int64{
	ir.KindInt8:  {math.MinInt8, math.MaxInt8},
	ir.KindInt16: {math.MinInt16, math.MaxInt16},
	ir.KindInt32: {math.MinInt32, math.MaxInt32},
	ir.KindInt64: {math.MinInt64, math.MaxInt64},
}

// Narrow converts a native backend value to the Go representation of target.
//
// CRITICAL: narrowing is checked, never truncating. An integral value outside
// the target range, a fractional value targeted at an integer type, and a
// finite float beyond ±MaxFloat32 targeted at float32 all return
// *OverflowError. Null stays null; non-numeric targets pass the value
// through.
func Narrow(v any, target *ir.Type) (any, error) {
	if v == nil {
		return nil, nil
	}
	if !target.IsNumeric() {
		return v, nil
	}
	if !ir.IsNumber(v) {
		return nil, fmt.Errorf("narrow %T to %s: not a number", v, target)
	}
	switch target.Kind() {
	case ir.KindInt8, ir.KindInt16, ir.KindInt32, ir.KindInt64:
		return narrowInt(v, target)
	case ir.KindFloat32:
		f, _ := ir.AsFloat64(v)
		if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
			return nil, &OverflowError{Value: v, Target: target}
		}
		return float32(f), nil
	case ir.KindFloat64:
		f, _ := ir.AsFloat64(v)
		return f, nil
	default:
		d, _ := ir.AsDecimal(v)
		return d, nil
	}
}

func narrowInt(v any, target *ir.Type) (any, error) {
	if !integral(v) {
		return nil, &OverflowError{Value: v, Target: target}
	}
	i, _ := ir.AsInt64(v)
	r := intRanges[target.Kind()]
	if i < r[0] || i > r[1] {
		return nil, &OverflowError{Value: v, Target: target}
	}
	switch target.Kind() {
	case ir.KindInt8:
		return int8(i), nil
	case ir.KindInt16:
		return int16(i), nil
	case ir.KindInt32:
		return int32(i), nil
	default:
		return i, nil
	}
}

// integral reports whether v holds a whole number representable as int64.
func integral(v any) bool {
	switch n := v.(type) {
	case uint64:
		return n <= math.MaxInt64
	case uint:
		return uint64(n) <= math.MaxInt64
	}
	if ir.IsDecimalValue(v) {
		d, _ := ir.AsDecimal(v)
		return d.IsInteger() && d.Abs().LessThan(decimalTwo63)
	}
	if ir.IsFloatingValue(v) {
		f, _ := ir.AsFloat64(v)
		return f == math.Trunc(f) && f >= -(1<<63) && f < 1<<63
	}
	return true
}

var decimalTwo63 = decimal.NewFromInt(math.MaxInt64).Add(decimal.NewFromInt(1))
