package store

import (
	"fmt"
	"time"

	"github.com/roach88/pathql/internal/convert"
	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/querysql"
)

// columnType returns the SQLite column type for a scalar property, or ""
// when the property has no column.
func columnType(t *ir.Type) string {
	switch {
	case t.IsIntegral(), t.Kind() == ir.KindBool:
		return "INTEGER"
	case t.IsFloating(), t.Kind() == ir.KindDecimal:
		return "REAL"
	case t.Kind() == ir.KindString, t.Kind() == ir.KindDateTime:
		return "TEXT"
	}
	return ""
}

// marshalValue converts a property value to its storage class, matching the
// parameters the SQLite dialect binds.
func marshalValue(v any) any {
	if v == nil {
		return nil
	}
	return querysql.SQLite.Bind(v)
}

// unmarshalColumn converts a scanned column back to the Go representation
// of t. Entity-typed columns hold the entity id and are returned as read.
//
// CRITICAL: narrowing goes through convert.Narrow so an out-of-range value
// is an error, never a silently truncated number.
func unmarshalColumn(v any, t *ir.Type) (any, error) {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if v == nil {
		return nil, nil
	}
	switch {
	case t.Kind() == ir.KindBool:
		i, ok := ir.AsInt64(v)
		if !ok {
			return nil, fmt.Errorf("unmarshal bool: got %T", v)
		}
		return i != 0, nil
	case t.Kind() == ir.KindDateTime:
		s, ok := v.(string)
		if !ok {
			if tv, ok := v.(time.Time); ok {
				return tv.UTC(), nil
			}
			return nil, fmt.Errorf("unmarshal datetime: got %T", v)
		}
		tv, err := time.ParseInLocation(querysql.TimeLayout, s, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("unmarshal datetime: %w", err)
		}
		return tv, nil
	case t.Kind() == ir.KindDecimal:
		d, ok := ir.AsDecimal(v)
		if !ok {
			return nil, fmt.Errorf("unmarshal decimal: got %T", v)
		}
		return d, nil
	case t.IsNumeric():
		return convert.Narrow(v, t)
	}
	return v, nil
}
