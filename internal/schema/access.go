package schema

import (
	"reflect"
	"strings"
)

// FieldValue returns the member called name of v.
//
// Structs are searched by query name (tag or lower-cased field name), then by
// Go field name. Maps with string keys are indexed by name. Pointers and
// interfaces are followed. The second result is false when v has no such
// member; a nil pointer yields the zero Value and true.
func FieldValue(v reflect.Value, name string) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, true
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	switch v.Kind() {
	case reflect.Struct:
		if e, err := FromType(v.Type()); err == nil {
			if p, ok := e.Property(name); ok {
				return fieldByIndex(v, p.Index)
			}
		}
		f, ok := v.Type().FieldByNameFunc(func(s string) bool { return strings.EqualFold(s, name) })
		if !ok || !f.IsExported() {
			return reflect.Value{}, false
		}
		return fieldByIndex(v, f.Index)
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		mv := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if !mv.IsValid() {
			return reflect.Value{}, false
		}
		return mv, true
	}
	return reflect.Value{}, false
}

// fieldByIndex walks an index path, stopping at nil embedded pointers.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, true
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}
