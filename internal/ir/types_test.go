package ir

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type kitten struct {
	Name string
}

type cat struct {
	Name      string
	Weight    int32
	BodyMass  float32
	Birthdate time.Time
	Price     decimal.Decimal
	Kittens   []kitten
	ByName    map[string]kitten
	Mate      *cat
}

func TestTypeForScalars(t *testing.T) {
	tests := []struct {
		name string
		got  *Type
		want *Type
	}{
		{"bool", TypeFor[bool](), Bool},
		{"int8", TypeFor[int8](), Int8},
		{"int16", TypeFor[int16](), Int16},
		{"int32", TypeFor[int32](), Int32},
		{"int64", TypeFor[int64](), Int64},
		{"int", TypeFor[int](), Int64},
		{"uint8 widens", TypeFor[uint8](), Int16},
		{"float32", TypeFor[float32](), Float32},
		{"float64", TypeFor[float64](), Float64},
		{"string", TypeFor[string](), String},
		{"time", TypeFor[time.Time](), DateTime},
		{"decimal", TypeFor[decimal.Decimal](), Decimal},
		{"pointer", TypeFor[*int32](), Int32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.got), "want %s, got %s", tt.want, tt.got)
		})
	}
}

func TestTypeForComposite(t *testing.T) {
	assert.Equal(t, "entity<cat>", TypeFor[cat]().String())
	assert.Equal(t, "collection<entity<kitten>>", TypeFor[[]kitten]().String())
	assert.Equal(t, "map<string,entity<kitten>>", TypeFor[map[string]kitten]().String())
	assert.Equal(t, "entity<cat>", TypeFor[*cat]().String())
}

func TestTypeEqual(t *testing.T) {
	assert.True(t, EntityOf("Cat").Equal(EntityOf("Cat")))
	assert.False(t, EntityOf("Cat").Equal(EntityOf("Dog")))
	assert.True(t, CollectionOf(Int32).Equal(CollectionOf(Int32)))
	assert.False(t, CollectionOf(Int32).Equal(CollectionOf(Int64)))
	assert.True(t, MapOf(String, Int32).Equal(MapOf(String, Int32)))
	assert.False(t, MapOf(String, Int32).Equal(MapOf(Int32, Int32)))
	assert.False(t, Int32.Equal(nil))
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, Int8.IsNarrowNumeric())
	assert.True(t, Int16.IsNarrowNumeric())
	assert.True(t, Int32.IsNarrowNumeric())
	assert.True(t, Float32.IsNarrowNumeric())
	assert.False(t, Int64.IsNarrowNumeric())
	assert.False(t, Float64.IsNarrowNumeric())
	assert.False(t, Decimal.IsNarrowNumeric())

	assert.True(t, Decimal.IsNumeric())
	assert.False(t, Decimal.IsIntegral())
	assert.True(t, Float32.IsFloating())
	assert.False(t, String.IsNumeric())
	assert.True(t, DateTime.IsComparable())
	assert.False(t, EntityOf("Cat").IsScalar())
}

func TestWidest(t *testing.T) {
	assert.Equal(t, Int32, Widest(Int8, Int32))
	assert.Equal(t, Float64, Widest(Float64, Int32))
	assert.Equal(t, Float64, Widest(Int64, Float32))
	assert.Equal(t, Decimal, Widest(Float64, Decimal))
	assert.Equal(t, String, Widest(String, Int32))
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("int32")
	assert.True(t, ok)
	assert.Equal(t, KindInt32, k)

	k, ok = ParseKind("timestamp")
	assert.True(t, ok)
	assert.Equal(t, KindDateTime, k)

	_, ok = ParseKind("invalid")
	assert.False(t, ok)
	_, ok = ParseKind("nonsense")
	assert.False(t, ok)
}

func TestTypeOfValue(t *testing.T) {
	assert.Equal(t, Null, TypeOfValue(nil))
	assert.Equal(t, Int32, TypeOfValue(int32(3)))
	assert.Equal(t, String, TypeOfValue("x"))
	assert.Equal(t, DateTime, TypeOfValue(time.Unix(0, 0)))
}

func TestParseType_RoundTrip(t *testing.T) {
	types := []*Type{
		Int32, Decimal, DateTime,
		EntityOf("Cat"),
		CollectionOf(EntityOf("Cat")),
		MapOf(String, EntityOf("Cat")),
		MapOf(String, MapOf(Int64, CollectionOf(String))),
	}
	for _, want := range types {
		got, err := ParseType(want.String())
		if assert.NoError(t, err, want.String()) {
			assert.True(t, want.Equal(got), "%s != %s", want, got)
		}
	}
}

func TestParseType_Errors(t *testing.T) {
	for _, s := range []string{"", "entity", "entity<>", "collection<int32", "map<string>", "widget<x>", "int33"} {
		_, err := ParseType(s)
		assert.Error(t, err, s)
	}
}
