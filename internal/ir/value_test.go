package ir

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualAcrossNumericKinds(t *testing.T) {
	assert.True(t, Equal(int32(1), int64(1)))
	assert.True(t, Equal(int8(2), 2.0))
	assert.True(t, Equal(decimal.NewFromInt(5), 5))
	assert.False(t, Equal(int32(1), int32(2)))
	assert.False(t, Equal(1, "1"))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, 0))
}

func TestEqualTimesByInstant(t *testing.T) {
	utc := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	est := utc.In(time.FixedZone("EST", -5*3600))
	assert.True(t, Equal(utc, est))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"ints", int32(1), int64(2), -1},
		{"float vs int", 2.5, 2, 1},
		{"decimal vs float", decimal.RequireFromString("1.10"), 1.1, 0},
		{"max uint64 vs zero", uint64(math.MaxUint64), int64(0), 1},
		{"2^63 vs min int64", uint64(1 << 63), int64(math.MinInt64), 1},
		{"uint64 vs max int64", uint64(1 << 63), int64(math.MaxInt64), 1},
		{"large int vs float", int64(1<<62 + 1), float64(1 << 62), 1},
		{"uint64 vs float", uint64(1 << 63), float64(1 << 63), 0},
		{"uint64 vs decimal", uint64(math.MaxUint64), decimal.RequireFromString("18446744073709551615"), 0},
		{"strings", "b", "a", 1},
		{"bools", false, true, -1},
		{"times", time.Unix(10, 0), time.Unix(5, 0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompareErrors(t *testing.T) {
	_, err := Compare(nil, 1)
	assert.Error(t, err)

	_, err = Compare("a", 1)
	assert.Error(t, err)
}

func TestKeyConsistentWithEqual(t *testing.T) {
	assert.Equal(t, Key(int32(7)), Key(int64(7)))
	assert.Equal(t, Key(7.0), Key(int16(7)))
	assert.Equal(t, Key(decimal.NewFromInt(7)), Key(7))
	assert.Equal(t, Key(decimal.RequireFromString("1.5")), Key(1.5))
	assert.NotEqual(t, Key(1.5), Key(2.5))

	utc := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, Key(utc), Key(utc.In(time.FixedZone("X", 3600))))
}

func TestKeyLargeNumbers(t *testing.T) {
	pairs := []struct {
		name string
		a, b any
	}{
		{"2^62 float and int", float64(1 << 62), int64(1 << 62)},
		{"2^62 decimal and int", decimal.NewFromInt(1 << 62), int64(1 << 62)},
		{"2^62 decimal and float", decimal.NewFromInt(1 << 62), float64(1 << 62)},
		{"2^63 float and uint64", float64(1 << 63), uint64(1 << 63)},
		{"max uint64 and decimal", uint64(math.MaxUint64), decimal.RequireFromString("18446744073709551615")},
		{"negative zero", math.Copysign(0, -1), 0},
	}
	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, Equal(tt.a, tt.b))
			assert.Equal(t, Key(tt.a), Key(tt.b))
		})
	}

	assert.False(t, Equal(uint64(1<<63), int64(math.MinInt64)))
	assert.NotEqual(t, Key(uint64(1<<63)), Key(int64(math.MinInt64)))
	assert.False(t, Equal(int64(1<<62+1), float64(1<<62)))
	assert.NotEqual(t, Key(int64(1<<62+1)), Key(float64(1<<62)))
}

func TestKeyUnhashableValues(t *testing.T) {
	a := Key([]any{"x", 1})
	b := Key([]any{"x", 1})
	assert.Equal(t, a, b)
}

func TestCompositeKey(t *testing.T) {
	assert.Equal(t, CompositeKey([]any{int32(1), "a"}), CompositeKey([]any{int64(1), "a"}))
	assert.NotEqual(t, CompositeKey([]any{1, "a"}), CompositeKey([]any{1, "b"}))
	assert.Equal(t, Key(3), CompositeKey([]any{3}))
}

func TestAsConversions(t *testing.T) {
	i, ok := AsInt64(uint16(9))
	assert.True(t, ok)
	assert.Equal(t, int64(9), i)

	_, ok = AsInt64(uint64(math.MaxUint64))
	assert.False(t, ok, "values above MaxInt64 do not fit")

	f, ok := AsFloat64(float32(1.5))
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)

	d, ok := AsDecimal(int8(3))
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.NewFromInt(3)))

	_, ok = AsInt64("3")
	assert.False(t, ok)
}
