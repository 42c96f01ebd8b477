package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/pathql/internal/convert"
	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/querysql"
)

func TestColumnType(t *testing.T) {
	tests := []struct {
		typ  *ir.Type
		want string
	}{
		{ir.Int8, "INTEGER"},
		{ir.Int64, "INTEGER"},
		{ir.Bool, "INTEGER"},
		{ir.Float32, "REAL"},
		{ir.Decimal, "REAL"},
		{ir.String, "TEXT"},
		{ir.DateTime, "TEXT"},
		{ir.EntityOf("Owner"), ""},
		{ir.CollectionOf(ir.String), ""},
		{ir.MapOf(ir.String, ir.Int32), ""},
	}
	for _, tt := range tests {
		if got := columnType(tt.typ); got != tt.want {
			t.Errorf("columnType(%s) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestMarshalValue(t *testing.T) {
	ts := time.Date(2021, time.June, 15, 8, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"true", true, int64(1)},
		{"false", false, int64(0)},
		{"time in UTC", ts, "2021-06-15 06:30:00"},
		{"decimal", decimal.RequireFromString("7.25"), 7.25},
		{"string", "Bob", "Bob"},
		{"int32", int32(3), int32(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := marshalValue(tt.in); got != tt.want {
				t.Errorf("marshalValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnmarshalColumn(t *testing.T) {
	tests := []struct {
		name string
		in   any
		typ  *ir.Type
		want any
	}{
		{"null", nil, ir.Int32, nil},
		{"bool", int64(1), ir.Bool, true},
		{"bool false", int64(0), ir.Bool, false},
		{"narrow int", int64(42), ir.Int8, int8(42)},
		{"float", 2.5, ir.Float64, 2.5},
		{"bytes", []byte("Bob"), ir.String, "Bob"},
		{"datetime", "2020-01-05 00:00:00", ir.DateTime, time.Date(2020, time.January, 5, 0, 0, 0, 0, time.UTC)},
		{"datetime fraction", "2020-01-05 10:11:12.5", ir.DateTime, time.Date(2020, time.January, 5, 10, 11, 12, 5e8, time.UTC)},
		{"decimal", 10.5, ir.Decimal, decimal.RequireFromString("10.5")},
		{"entity id", int64(2), ir.EntityOf("Cat"), int64(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := unmarshalColumn(tt.in, tt.typ)
			if err != nil {
				t.Fatalf("unmarshalColumn() failed: %v", err)
			}
			if !ir.Equal(got, tt.want) || ir.TypeOfValue(got).Kind() != ir.TypeOfValue(tt.want).Kind() {
				t.Errorf("unmarshalColumn(%#v, %s) = %#v, want %#v", tt.in, tt.typ, got, tt.want)
			}
		})
	}
}

func TestUnmarshalColumn_Errors(t *testing.T) {
	if _, err := unmarshalColumn(int64(300), ir.Int8); !convert.IsOverflow(err) {
		t.Errorf("narrowing 300 to int8: error = %v, want overflow", err)
	}
	if _, err := unmarshalColumn("yes", ir.Bool); err == nil {
		t.Error("expected error for text bool")
	}
	if _, err := unmarshalColumn("June 15", ir.DateTime); err == nil {
		t.Error("expected error for malformed datetime")
	}
	if _, err := unmarshalColumn("ten", ir.Decimal); err == nil {
		t.Error("expected error for text decimal")
	}
}

// TestRoundTrip_ThroughSQLite binds each value the way the SQLite dialect
// does, reads it back and decodes it to its declared type.
func TestRoundTrip_ThroughSQLite(t *testing.T) {
	s := createTestStore(t)
	values := []any{
		int8(-7), int16(300), int32(70000), int64(1) << 40,
		float32(1.5), 2.25,
		decimal.RequireFromString("3.75"),
		"it's", true, false,
		time.Date(2023, time.March, 1, 12, 0, 0, 123000000, time.UTC),
	}
	for _, v := range values {
		rows, err := s.RunSQL(context.Background(), "SELECT ?", marshalValue(v))
		if err != nil {
			t.Fatalf("RunSQL(%#v) failed: %v", v, err)
		}
		got, err := unmarshalColumn(rows[0][0], ir.TypeOfValue(v))
		if err != nil {
			t.Fatalf("unmarshalColumn(%#v) failed: %v", rows[0][0], err)
		}
		if !ir.Equal(got, v) {
			t.Errorf("round trip of %#v = %#v", v, got)
		}
	}
}

// TestRoundTrip_Literals reads literal text rendered by the SQLite dialect.
func TestRoundTrip_Literals(t *testing.T) {
	s := createTestStore(t)
	values := []any{
		int32(-12), 1.0, 1e-7, "O'Malley", true,
		decimal.RequireFromString("0.125"),
		time.Date(2022, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
	for _, v := range values {
		lit, err := querysql.SQLite.Literal(v)
		if err != nil {
			t.Fatalf("Literal(%#v) failed: %v", v, err)
		}
		rows, err := s.RunSQL(context.Background(), "SELECT "+lit)
		if err != nil {
			t.Fatalf("RunSQL(%s) failed: %v", lit, err)
		}
		got, err := unmarshalColumn(rows[0][0], ir.TypeOfValue(v))
		if err != nil {
			t.Fatalf("unmarshalColumn(%#v) failed: %v", rows[0][0], err)
		}
		if !ir.Equal(got, v) {
			t.Errorf("literal %s read back as %#v, want %#v", lit, got, v)
		}
	}
}
