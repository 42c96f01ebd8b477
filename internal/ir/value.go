package ir

import (
	"cmp"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// IsNumber reports whether v is a Go numeric value (any int, uint, float or
// decimal.Decimal).
func IsNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, decimal.Decimal:
		return true
	}
	return false
}

// IsFloatingValue reports whether v is a float32 or float64.
func IsFloatingValue(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

// IsDecimalValue reports whether v is a decimal.Decimal.
func IsDecimalValue(v any) bool {
	_, ok := v.(decimal.Decimal)
	return ok
}

// AsInt64 converts an integral value to int64. Floats and decimals are
// truncated toward zero. Returns false for non-numeric values and for
// unsigned values above math.MaxInt64.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	case decimal.Decimal:
		return n.IntPart(), true
	}
	return 0, false
}

// AsFloat64 converts a numeric value to float64.
func AsFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case decimal.Decimal:
		return n.InexactFloat64(), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	if i, ok := AsInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}

// AsDecimal converts a numeric value to decimal.Decimal. Integral floats
// below 2^64 in magnitude convert exactly; other floats use their shortest
// decimal form.
func AsDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case float32:
		if d, ok := integralFloat(float64(n)); ok {
			return d, true
		}
		return decimal.NewFromFloat32(n), true
	case float64:
		if d, ok := integralFloat(n); ok {
			return d, true
		}
		return decimal.NewFromFloat(n), true
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(n)), 0), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), true
	}
	if i, ok := AsInt64(v); ok {
		return decimal.NewFromInt(i), true
	}
	return decimal.Decimal{}, false
}

// Equal reports value equality as used by the evaluation backend.
//
// Numbers compare by numeric value across kinds, times by instant, decimals
// exactly. Everything else falls back to reflect.DeepEqual.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if IsNumber(a) && IsNumber(b) {
		c, err := compareNumbers(a, b)
		return err == nil && c == 0
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return reflect.DeepEqual(a, b)
}

// Compare orders two values of compatible kinds: numbers, strings, times and
// bools (false < true). Returns an error for nil or incomparable operands.
func Compare(a, b any) (int, error) {
	if a == nil || b == nil {
		return 0, fmt.Errorf("cannot compare null values")
	}
	if IsNumber(a) && IsNumber(b) {
		return compareNumbers(a, b)
	}
	switch va := a.(type) {
	case string:
		if vb, ok := b.(string); ok {
			return strings.Compare(va, vb), nil
		}
	case time.Time:
		if vb, ok := b.(time.Time); ok {
			return va.Compare(vb), nil
		}
	case bool:
		if vb, ok := b.(bool); ok {
			switch {
			case va == vb:
				return 0, nil
			case !va:
				return -1, nil
			default:
				return 1, nil
			}
		}
	}
	return 0, fmt.Errorf("cannot compare %T with %T", a, b)
}

func compareNumbers(a, b any) (int, error) {
	if IsDecimalValue(a) || IsDecimalValue(b) {
		da, _ := AsDecimal(a)
		db, _ := AsDecimal(b)
		return da.Cmp(db), nil
	}
	floatA, floatB := IsFloatingValue(a), IsFloatingValue(b)
	if floatA || floatB {
		fa, _ := AsFloat64(a)
		fb, _ := AsFloat64(b)
		if math.IsNaN(fa) || math.IsNaN(fb) {
			return 0, fmt.Errorf("cannot compare NaN")
		}
		if floatA && floatB {
			return cmp.Compare(fa, fb), nil
		}
		return exactNumber(a).Cmp(exactNumber(b)), nil
	}
	ia, okA := AsInt64(a)
	ib, okB := AsInt64(b)
	if !okA || !okB {
		return exactNumber(a).Cmp(exactNumber(b)), nil
	}
	return cmp.Compare(ia, ib), nil
}

// exactNumber converts an integer or float to a big.Float without rounding.
func exactNumber(v any) *big.Float {
	switch n := v.(type) {
	case float32:
		return new(big.Float).SetFloat64(float64(n))
	case float64:
		return new(big.Float).SetFloat64(n)
	case uint:
		return new(big.Float).SetUint64(uint64(n))
	case uint64:
		return new(big.Float).SetUint64(n)
	}
	i, _ := AsInt64(v)
	return new(big.Float).SetInt64(i)
}

// integralFloat converts a whole float below 2^64 in magnitude to an exact
// decimal.
func integralFloat(f float64) (decimal.Decimal, bool) {
	if f != math.Trunc(f) || math.Abs(f) >= 1<<64 {
		return decimal.Decimal{}, false
	}
	i, _ := new(big.Float).SetFloat64(f).Int(nil)
	return decimal.NewFromBigInt(i, 0), true
}

type timeKey struct{ unixNano int64 }

type textKey struct{ s string }

// Key returns a comparable map key such that Equal(a, b) implies
// Key(a) == Key(b). Used for DISTINCT and grouping.
func Key(v any) any {
	switch n := v.(type) {
	case nil:
		return nil
	case time.Time:
		return timeKey{n.UnixNano()}
	case decimal.Decimal:
		if n.IsInteger() {
			switch i := n.BigInt(); {
			case i.IsInt64():
				return i.Int64()
			case i.IsUint64():
				return i.Uint64()
			}
		}
		f := n.InexactFloat64()
		if decimal.NewFromFloat(f).Equal(n) {
			return f
		}
		return textKey{n.String()}
	case float32, float64:
		f, _ := AsFloat64(n)
		if f == math.Trunc(f) {
			switch {
			case f >= -(1<<63) && f < 1<<63:
				return int64(f)
			case f >= 0 && f < 1<<64:
				return uint64(f)
			}
		}
		return f
	case uint:
		if uint64(n) > math.MaxInt64 {
			return uint64(n)
		}
	case uint64:
		if n > math.MaxInt64 {
			return n
		}
	}
	if IsNumber(v) {
		i, _ := AsInt64(v)
		return i
	}
	if reflect.TypeOf(v).Comparable() {
		return v
	}
	data, err := MarshalCanonical(v)
	if err != nil {
		return textKey{fmt.Sprintf("%#v", v)}
	}
	return textKey{string(data)}
}

// CompositeKey builds a comparable key for a tuple of values.
func CompositeKey(vals []any) any {
	if len(vals) == 1 {
		return Key(vals[0])
	}
	var b strings.Builder
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(0)
		}
		fmt.Fprintf(&b, "%T:%v", Key(v), Key(v))
	}
	return textKey{b.String()}
}
