package querysql

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is the text form of date-time literals. Times are rendered in
// UTC; trailing zero fractions are dropped.
const TimeLayout = "2006-01-02 15:04:05.999999999"

// Quote renders s as a single-quoted string literal, doubling quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// FormatFloat renders f so that it always reads back as a floating literal:
// integral values get a ".0" suffix.
func FormatFloat(f float64, bits int) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s, true
}

// literalStyle holds the dialect-specific parts of literal encoding.
type literalStyle struct {
	dialect string
	boolean func(bool) string
	time    func(time.Time) string
}

func (ls literalStyle) encode(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "null", nil
	case bool:
		return ls.boolean(x), nil
	case string:
		return Quote(x), nil
	case float32:
		if s, ok := FormatFloat(float64(x), 32); ok {
			return s, nil
		}
	case float64:
		if s, ok := FormatFloat(x, 64); ok {
			return s, nil
		}
	case decimal.Decimal:
		return decimalLiteral(x), nil
	case time.Time:
		return ls.time(x), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), nil
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			parts := make([]string, rv.Len())
			for i := range parts {
				s, err := ls.encode(rv.Index(i).Interface())
				if err != nil {
					return "", err
				}
				parts[i] = s
			}
			return "(" + strings.Join(parts, ", ") + ")", nil
		}
	}
	return "", &LiteralError{Dialect: ls.dialect, Value: v}
}

// decimalLiteral renders d at its own scale: 10.50 stays 10.50.
func decimalLiteral(d decimal.Decimal) string {
	if d.Exponent() < 0 {
		return d.StringFixed(-d.Exponent())
	}
	return d.String()
}

func hqlLiteral(dialect string, v any) (string, error) {
	return literalStyle{
		dialect: dialect,
		boolean: strconv.FormatBool,
		time: func(t time.Time) string {
			return "{ts " + Quote(t.UTC().Format(TimeLayout)) + "}"
		},
	}.encode(v)
}

func sqliteLiteral(v any) (string, error) {
	return literalStyle{
		dialect: "sqlite",
		boolean: func(b bool) string {
			if b {
				return "1"
			}
			return "0"
		},
		time: func(t time.Time) string { return Quote(t.UTC().Format(TimeLayout)) },
	}.encode(v)
}

// sqliteBind converts parameters into the storage classes the SQLite
// dialect compares against: times as TimeLayout text, decimals as REAL.
func sqliteBind(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x.UTC().Format(TimeLayout)
	case decimal.Decimal:
		return x.InexactFloat64()
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	}
	return v
}
