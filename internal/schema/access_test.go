package schema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldValue(t *testing.T) {
	mate := &pet{Name: "Tom"}
	p := &pet{
		audit:  audit{CreatedBy: "admin"},
		Name:   "Bob",
		Mate:   mate,
		ByName: map[string]*pet{"Tom": mate},
	}
	v := reflect.ValueOf(p)

	got, ok := FieldValue(v, "name")
	require.True(t, ok)
	assert.Equal(t, "Bob", got.Interface())

	got, ok = FieldValue(v, "Name")
	require.True(t, ok)
	assert.Equal(t, "Bob", got.Interface())

	got, ok = FieldValue(v, "createdBy")
	require.True(t, ok)
	assert.Equal(t, "admin", got.Interface())

	got, ok = FieldValue(v, "kittensByName")
	require.True(t, ok)
	assert.Equal(t, 1, got.Len())

	got, ok = FieldValue(got, "Tom")
	require.True(t, ok)
	assert.Same(t, mate, got.Interface())

	_, ok = FieldValue(v, "nope")
	assert.False(t, ok)

	_, ok = FieldValue(reflect.ValueOf(3), "x")
	assert.False(t, ok)
}

func TestFieldValueNilPointer(t *testing.T) {
	var p *pet
	got, ok := FieldValue(reflect.ValueOf(p), "name")
	assert.True(t, ok)
	assert.False(t, got.IsValid())
}
