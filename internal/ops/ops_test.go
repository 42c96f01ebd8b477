package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pathql/internal/ir"
)

func TestLookup(t *testing.T) {
	op, ok := Lookup(Eq)
	require.True(t, ok)
	assert.Equal(t, CategoryComparison, op.Category)
	assert.Equal(t, Arity{2, 2}, op.Arity)

	_, ok = Lookup("NOPE")
	assert.False(t, ok)

	assert.Panics(t, func() { MustLookup("NOPE") })
}

func TestAllSortedAndComplete(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}

	categories := map[Category]int{}
	for _, op := range all {
		categories[op.Category]++
	}
	for _, c := range []Category{
		CategoryBoolean, CategoryComparison, CategoryString, CategoryMath,
		CategoryDateTime, CategoryAggregate, CategoryCollection,
	} {
		assert.Positive(t, categories[c], "category %s has no operators", c)
	}
	assert.Equal(t, 12, categories[CategoryDateTime])
	assert.Equal(t, 7, categories[CategoryAggregate])
}

func TestArity(t *testing.T) {
	assert.True(t, Arity{2, Variadic}.Accepts(5))
	assert.False(t, Arity{2, Variadic}.Accepts(1))
	assert.False(t, fixed(1).Accepts(2))
	assert.Equal(t, "2..*", Arity{2, Variadic}.String())
	assert.Equal(t, "3", fixed(3).String())
	assert.Equal(t, "1..3", Arity{1, 3}.String())
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		id      ID
		args    []*ir.Type
		wantErr string
	}{
		{"eq any", Eq, []*ir.Type{ir.String, ir.String}, ""},
		{"and too few", And, []*ir.Type{ir.Bool}, "AND expects 2..* arguments, got 1"},
		{"and non bool", And, []*ir.Type{ir.Bool, ir.String}, "AND argument 1: expected bool, got string"},
		{"add strings", Add, []*ir.Type{ir.String, ir.Int32}, "ADD argument 0: expected numeric, got string"},
		{"null accepted", Add, []*ir.Type{ir.Null, ir.Int32}, ""},
		{"substr signature", Substr2, []*ir.Type{ir.String, ir.Int32, ir.Int64}, ""},
		{"substr bad index", Substr1, []*ir.Type{ir.String, ir.Float64}, "SUBSTR_1ARG argument 1: expected integral, got float64"},
		{"sum collection", Sum, []*ir.Type{ir.CollectionOf(ir.Int32)}, ""},
		{"sum string collection", Sum, []*ir.Type{ir.CollectionOf(ir.String)}, "expected numeric sequence"},
		{"year", Year, []*ir.Type{ir.DateTime}, ""},
		{"year of string", Year, []*ir.Type{ir.String}, "expected datetime"},
		{"count all", CountAll, nil, ""},
		{"map contains key", MapContainsKey, []*ir.Type{ir.MapOf(ir.String, ir.Int32), ir.String}, ""},
		{"variadic tail", Concat, []*ir.Type{ir.String, ir.String, ir.Int32}, "CONCAT argument 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MustLookup(tt.id).Check(tt.args)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResultType(t *testing.T) {
	tests := []struct {
		name string
		id   ID
		args []*ir.Type
		want *ir.Type
	}{
		{"comparison", Lt, []*ir.Type{ir.Int32, ir.Int32}, ir.Bool},
		{"add widens", Add, []*ir.Type{ir.Int8, ir.Float64}, ir.Float64},
		{"add skips null", Add, []*ir.Type{ir.Null, ir.Int16}, ir.Int16},
		{"sum keeps declared", Sum, []*ir.Type{ir.Int32}, ir.Int32},
		{"sum over collection", Sum, []*ir.Type{ir.CollectionOf(ir.Float32)}, ir.Float32},
		{"avg", Avg, []*ir.Type{ir.Int32}, ir.Float64},
		{"count", Count, []*ir.Type{ir.String}, ir.Int64},
		{"length", Length, []*ir.Type{ir.String}, ir.Int32},
		{"year", Year, []*ir.Type{ir.DateTime}, ir.Int32},
		{"coalesce", Coalesce, []*ir.Type{ir.Null, ir.String}, ir.String},
		{"coalesce all null", Coalesce, []*ir.Type{ir.Null}, ir.Any},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustLookup(tt.id).ResultType(tt.args)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, MustLookup(Sum).IsAggregate())
	assert.False(t, MustLookup(Add).IsAggregate())
	assert.True(t, MustLookup(CountDistinct).IsCount())
	assert.True(t, MustLookup(CountAll).IsCount())
	assert.False(t, MustLookup(Sum).IsCount())
}
