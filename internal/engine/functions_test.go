package engine

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pathql/internal/ops"
	"github.com/roach88/pathql/internal/testutil"
)

func TestLike(t *testing.T) {
	tests := []struct {
		s, pattern string
		want       bool
	}{
		{"abc", "abc", true},
		{"abc", "a%", true},
		{"abc", "a_c", true},
		{"abd", "a_c", false},
		{"abc", "%", true},
		{"", "%", true},
		{"abc", "ab", false},
		{"a.c", "a.c", true},
		{"abc", "a.c", false},
		{"a+b(c)", "a+b(%)", true},
		{"line\nbreak", "line%", true},
		{"ABC", "abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.s+"~"+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, Like(tt.s, tt.pattern))
		})
	}
}

func TestLikeEscape(t *testing.T) {
	assert.True(t, LikeEscape("100%", "100!%", '!'))
	assert.False(t, LikeEscape("1000", "100!%", '!'))
	assert.True(t, LikeEscape("a_b", "a!_b", '!'))
	assert.False(t, LikeEscape("axb", "a!_b", '!'))
	assert.True(t, LikeEscape("axb", "a_b", '!'))
}

func TestLikeCacheBounded(t *testing.T) {
	for i := range 4 * likeCacheSize {
		pattern := fmt.Sprintf("id-%d-%%", i)
		assert.True(t, Like(fmt.Sprintf("id-%d-x", i), pattern))
		assert.False(t, Like("other", pattern))
	}
	likeCache.Lock()
	n := len(likeCache.m)
	likeCache.Unlock()
	assert.LessOrEqual(t, n, likeCacheSize)
	assert.Positive(t, n)

	// results stay correct after the cache was dropped
	assert.True(t, Like("abc", "a%"))
	assert.True(t, LikeEscape("100%", "100!%", '!'))
}

func TestCoalesceNullIf(t *testing.T) {
	assert.Equal(t, 5, Coalesce(nil, nil, 5))
	assert.Nil(t, Coalesce(nil, nil))
	assert.Nil(t, Coalesce())
	assert.Nil(t, NullIf(3, 3))
	assert.Equal(t, 3, NullIf(3, 4))
	assert.Nil(t, NullIf(int32(3), int64(3)))
}

func TestLeftJoin(t *testing.T) {
	assert.Equal(t, []any{nil}, LeftJoin(nil))
	assert.Equal(t, []any{nil}, LeftJoin([]any{}))
	assert.Equal(t, []any{"x"}, LeftJoin([]any{"x"}))
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		op     ops.ID
		values []any
		want   any
	}{
		{"sum integral", ops.Sum, []any{1, 2, 3}, int64(6)},
		{"sum floating first", ops.Sum, []any{1.0, 2, 3}, 6.0},
		{"sum integral first truncates", ops.Sum, []any{1, 2.5}, int64(3)},
		{"sum decimal", ops.Sum, []any{decimal.RequireFromString("0.1"), decimal.RequireFromString("0.2")}, decimal.RequireFromString("0.3")},
		{"sum skips nulls", ops.Sum, []any{nil, int32(4), nil, int8(1)}, int64(5)},
		{"avg integral", ops.Avg, []any{2, 4}, 3.0},
		{"avg floating", ops.Avg, []any{1.5, 2.5}, 2.0},
		{"min", ops.Min, []any{3, 1, 2}, int64(1)},
		{"max floating", ops.Max, []any{1.5, 4, 2}, 4.0},
		{"max string", ops.Max, []any{"b", "c", "a"}, "c"},
		{"min time", ops.Min, []any{time.Unix(20, 0), time.Unix(10, 0)}, time.Unix(10, 0)},
		{"count", ops.Count, []any{1, 1, 2}, int64(3)},
		{"count distinct", ops.CountDistinct, []any{1, int64(1), 1.0, 2}, int64(2)},
		{"count empty", ops.Count, nil, int64(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(tt.op, tt.values)
			require.NoError(t, err)
			if d, ok := tt.want.(decimal.Decimal); ok {
				assert.True(t, d.Equal(got.(decimal.Decimal)), "got %v", got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAggregateErrors(t *testing.T) {
	_, err := Aggregate(ops.Sum, nil)
	require.Error(t, err)
	assert.True(t, IsEmptySequence(err))
	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, ops.Sum, evalErr.Op)

	_, err = Aggregate(ops.Avg, []any{nil})
	assert.True(t, IsEmptySequence(err))

	_, err = Aggregate(ops.Add, []any{1})
	assert.True(t, IsUnknownAggregator(err))

	_, err = Aggregate(ops.Sum, []any{1, "x"})
	assert.ErrorIs(t, err, ErrOperandType)
}

func TestGet(t *testing.T) {
	bob := testutil.Cats()[0]

	v, err := Get(bob, "name")
	require.NoError(t, err)
	assert.Equal(t, "Bob", v)

	v, err = Get(bob, "Weight")
	require.NoError(t, err)
	assert.Equal(t, int32(6), v)

	v, err = Get(bob, "mateId")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	v, err = Get(testutil.Cats()[2], "mate")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = Get(nil, "name")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = Get(bob, "colour")
	require.Error(t, err)
	assert.True(t, IsNoSuchField(err))
	assert.Contains(t, err.Error(), "colour")
}

func TestDateField(t *testing.T) {
	// Sunday 2020-01-05, ISO week 1 of 2020.
	ts := time.Date(2020, time.January, 5, 13, 14, 15, 16_000_000, time.UTC)
	tests := []struct {
		op   ops.ID
		want int32
	}{
		{ops.Year, 2020},
		{ops.Month, 1},
		{ops.Week, 1},
		{ops.DayOfMonth, 5},
		{ops.DayOfWeek, 1},
		{ops.DayOfYear, 5},
		{ops.Hour, 13},
		{ops.Minute, 14},
		{ops.Second, 15},
		{ops.Millisecond, 16},
		{ops.YearMonth, 202001},
		{ops.YearWeek, 202001},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			got, err := DateField(tt.op, ts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	// 2021-01-01 belongs to ISO week 53 of 2020.
	got, err := DateField(ops.YearWeek, time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int32(202053), got)

	// Fields are read in the value's own location.
	tokyo := time.FixedZone("JST", 9*3600)
	got, err = DateField(ops.Hour, time.Date(2020, 1, 1, 2, 0, 0, 0, tokyo))
	require.NoError(t, err)
	assert.Equal(t, int32(2), got)

	_, err = DateField(ops.Add, ts)
	assert.ErrorIs(t, err, ErrUnknownOperator)
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   ops.ID
		a, b any
		want any
	}{
		{"int add", ops.Add, int32(2), int8(3), int64(5)},
		{"int div truncates", ops.Div, 7, 2, int64(3)},
		{"int mod", ops.Mod, 7, 2, int64(1)},
		{"float mult", ops.Mult, 1.5, 2, 3.0},
		{"float div", ops.Div, 7, 2.0, 3.5},
		{"power", ops.Power, 2, 10, 1024.0},
		{"log", ops.Log, 8, 2, 3.0},
		{"null", ops.Add, nil, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Arithmetic(tt.op, tt.a, tt.b)
			require.NoError(t, err)
			if f, ok := tt.want.(float64); ok {
				assert.InDelta(t, f, got, 1e-12)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}

	d, err := Arithmetic(ops.Add, decimal.RequireFromString("0.1"), 1)
	require.NoError(t, err)
	assert.Equal(t, "1.1", d.(decimal.Decimal).String())

	_, err = Arithmetic(ops.Div, 1, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
	_, err = Arithmetic(ops.Add, "1", 1)
	assert.ErrorIs(t, err, ErrOperandType)
}

func TestUnary(t *testing.T) {
	tests := []struct {
		name string
		op   ops.ID
		a    any
		want any
	}{
		{"negate int", ops.Negate, int32(3), int64(-3)},
		{"abs int", ops.Abs, -4, int64(4)},
		{"abs float", ops.Abs, -1.5, 1.5},
		{"floor", ops.Floor, 1.7, 1.0},
		{"ceil", ops.Ceil, 1.2, 2.0},
		{"round half away", ops.Round, -2.5, -3.0},
		{"round int", ops.Round, 7, int64(7)},
		{"sqrt", ops.Sqrt, 9, 3.0},
		{"degrees", ops.Degrees, math.Pi, 180.0},
		{"radians", ops.Radians, 180, math.Pi},
		{"cot", ops.Cot, math.Pi / 4, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unary(tt.op, tt.a)
			require.NoError(t, err)
			if f, ok := tt.want.(float64); ok {
				assert.InDelta(t, f, got, 1e-9)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}

	coth, err := Unary(ops.Coth, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, math.Cosh(1)/math.Sinh(1), coth, 1e-12)

	d, err := Unary(ops.Round, decimal.RequireFromString("2.5"))
	require.NoError(t, err)
	assert.Equal(t, "3", d.(decimal.Decimal).String())
}
