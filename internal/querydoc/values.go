package querydoc

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"

	"github.com/roach88/pathql/internal/compiler"
	"github.com/roach88/pathql/internal/convert"
	"github.com/roach88/pathql/internal/ir"
)

// ParseType accepts both the canonical type form ("entity<Cat>",
// "collection<int32>") and schema type expressions ("Cat", "[]int32").
func ParseType(s string) (*ir.Type, error) {
	if strings.ContainsRune(s, '<') {
		return ir.ParseType(s)
	}
	return compiler.ParseTypeExpr(s)
}

// Infer converts a decoded YAML scalar into a runtime value. Integers become
// int64; sequences become []any.
func Infer(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, float64, int64, time.Time, decimal.Decimal:
		return x, nil
	case int:
		return int64(x), nil
	case uint64:
		return convert.Narrow(x, ir.Int64)
	case float32:
		return float64(x), nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			iv, err := Infer(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = iv
		}
		return out, nil
	}
	if ir.IsNumber(v) {
		i, _ := ir.AsInt64(v)
		return i, nil
	}
	return nil, fmt.Errorf("unsupported constant %T", v)
}

// Coerce converts a decoded YAML value into the Go representation of t.
func Coerce(v any, t *ir.Type) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch k := t.Kind(); {
	case k == ir.KindNull:
		return nil, fmt.Errorf("null type does not admit %v", v)
	case k == ir.KindAny:
		return Infer(v)
	case k == ir.KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		if s, ok := v.(string); ok {
			return strconv.ParseBool(s)
		}
	case k == ir.KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case k == ir.KindDateTime:
		return coerceTime(v)
	case k == ir.KindDecimal:
		return coerceDecimal(v)
	case t.IsNumeric():
		return coerceNumber(v, t)
	case k == ir.KindCollection:
		items, ok := v.([]any)
		if !ok {
			break
		}
		out := make([]any, len(items))
		for i, e := range items {
			c, err := Coerce(e, t.Elem())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = c
		}
		return out, nil
	case k == ir.KindMap:
		m, ok := v.(map[string]any)
		if !ok {
			break
		}
		out := make(map[string]any, len(m))
		for key, e := range m {
			c, err := Coerce(e, t.Elem())
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", key, err)
			}
			out[key] = c
		}
		return out, nil
	case k == ir.KindEntity:
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
	}
	return nil, fmt.Errorf("cannot read %v (%T) as %s", v, v, t)
}

func coerceNumber(v any, t *ir.Type) (any, error) {
	if s, ok := v.(string); ok {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("cannot read %q as %s: %w", s, t, err)
		}
		v = d
	}
	if !ir.IsNumber(v) {
		return nil, fmt.Errorf("cannot read %v (%T) as %s", v, v, t)
	}
	return convert.Narrow(v, t)
}

func coerceDecimal(v any) (any, error) {
	switch x := v.(type) {
	case string:
		return decimal.NewFromString(x)
	case decimal.Decimal:
		return x, nil
	}
	if d, ok := ir.AsDecimal(v); ok {
		return d, nil
	}
	return nil, fmt.Errorf("cannot read %v (%T) as decimal", v, v)
}

func coerceTime(v any) (any, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		t, err := dateparse.ParseIn(x, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("cannot read %q as datetime: %w", x, err)
		}
		return t, nil
	}
	return nil, fmt.Errorf("cannot read %v (%T) as datetime", v, v)
}

// Export converts a runtime value into a form yaml.v3 writes faithfully:
// decimals become their exact text.
func Export(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.String()
	case ir.Object:
		return exportMap(x)
	case map[string]any:
		return exportMap(x)
	case ir.Array:
		return exportSlice(x)
	case []any:
		return exportSlice(x)
	}
	return v
}

func exportMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, e := range m {
		out[k] = Export(e)
	}
	return out
}

func exportSlice(s []any) []any {
	out := make([]any, len(s))
	for i, e := range s {
		out[i] = Export(e)
	}
	return out
}
