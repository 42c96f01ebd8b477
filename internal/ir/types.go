package ir

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a declared value type.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindDecimal
	KindString
	KindDateTime
	KindEntity
	KindCollection
	KindMap
	KindAny
)

var kindNames = map[Kind]string{
	KindInvalid:    "invalid",
	KindNull:       "null",
	KindBool:       "bool",
	KindInt8:       "int8",
	KindInt16:      "int16",
	KindInt32:      "int32",
	KindInt64:      "int64",
	KindFloat32:    "float32",
	KindFloat64:    "float64",
	KindDecimal:    "decimal",
	KindString:     "string",
	KindDateTime:   "datetime",
	KindEntity:     "entity",
	KindCollection: "collection",
	KindMap:        "map",
	KindAny:        "any",
}

// String returns the lower-case kind name used in documents and errors.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a kind name as written in query documents and schema
// files. Aliases for the usual Go spellings are accepted.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "int":
		return KindInt64, true
	case "float":
		return KindFloat64, true
	case "boolean":
		return KindBool, true
	case "time", "timestamp", "date":
		return KindDateTime, true
	}
	for k, name := range kindNames {
		if name == s && k != KindInvalid {
			return k, true
		}
	}
	return KindInvalid, false
}

// Type is an immutable declared value type.
//
// Scalar types are shared singletons (Bool, Int32, ...). Entity, collection
// and map types are built with EntityOf, CollectionOf and MapOf. Compare
// types with Equal, never with ==.
type Type struct {
	kind Kind
	name string // entity name
	elem *Type  // collection element or map value
	key  *Type  // map key
}

// Scalar type singletons.
var (
	Null     = &Type{kind: KindNull}
	Bool     = &Type{kind: KindBool}
	Int8     = &Type{kind: KindInt8}
	Int16    = &Type{kind: KindInt16}
	Int32    = &Type{kind: KindInt32}
	Int64    = &Type{kind: KindInt64}
	Float32  = &Type{kind: KindFloat32}
	Float64  = &Type{kind: KindFloat64}
	Decimal  = &Type{kind: KindDecimal}
	String   = &Type{kind: KindString}
	DateTime = &Type{kind: KindDateTime}
	Any      = &Type{kind: KindAny}
)

var scalarTypes = map[Kind]*Type{
	KindNull:     Null,
	KindBool:     Bool,
	KindInt8:     Int8,
	KindInt16:    Int16,
	KindInt32:    Int32,
	KindInt64:    Int64,
	KindFloat32:  Float32,
	KindFloat64:  Float64,
	KindDecimal:  Decimal,
	KindString:   String,
	KindDateTime: DateTime,
	KindAny:      Any,
}

// ScalarType returns the singleton for a scalar kind.
// Returns nil for entity, collection and map kinds.
func ScalarType(k Kind) *Type {
	return scalarTypes[k]
}

// EntityOf returns the type of the named entity.
func EntityOf(name string) *Type {
	return &Type{kind: KindEntity, name: name}
}

// CollectionOf returns a collection type with the given element type.
func CollectionOf(elem *Type) *Type {
	return &Type{kind: KindCollection, elem: elem}
}

// MapOf returns a map type.
func MapOf(key, value *Type) *Type {
	return &Type{kind: KindMap, key: key, elem: value}
}

// Kind returns the type's kind.
func (t *Type) Kind() Kind {
	if t == nil {
		return KindInvalid
	}
	return t.kind
}

// Name returns the entity name (empty for non-entity types).
func (t *Type) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Elem returns the element type of a collection or the value type of a map.
func (t *Type) Elem() *Type {
	if t == nil {
		return nil
	}
	return t.elem
}

// Key returns the key type of a map.
func (t *Type) Key() *Type {
	if t == nil {
		return nil
	}
	return t.key
}

// String renders the type, e.g. "int32", "entity<Cat>", "collection<entity<Kitten>>".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.kind {
	case KindEntity:
		return "entity<" + t.name + ">"
	case KindCollection:
		return "collection<" + t.elem.String() + ">"
	case KindMap:
		return "map<" + t.key.String() + "," + t.elem.String() + ">"
	default:
		return t.kind.String()
	}
}

// Equal reports structural type equality.
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.kind != o.kind || t.name != o.name {
		return false
	}
	switch t.kind {
	case KindCollection:
		return t.elem.Equal(o.elem)
	case KindMap:
		return t.key.Equal(o.key) && t.elem.Equal(o.elem)
	}
	return true
}

// IsNumeric reports whether the type is an integral, floating or decimal type.
func (t *Type) IsNumeric() bool {
	return t.IsIntegral() || t.IsFloating() || t.Kind() == KindDecimal
}

// IsIntegral reports whether the type is a signed integer type.
func (t *Type) IsIntegral() bool {
	switch t.Kind() {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
	return false
}

// IsFloating reports whether the type is float32 or float64.
func (t *Type) IsFloating() bool {
	k := t.Kind()
	return k == KindFloat32 || k == KindFloat64
}

// IsNarrowNumeric reports whether the type is narrower than the native
// aggregate result types (int64 / float64): int8, int16, int32 or float32.
func (t *Type) IsNarrowNumeric() bool {
	switch t.Kind() {
	case KindInt8, KindInt16, KindInt32, KindFloat32:
		return true
	}
	return false
}

// IsComparable reports whether values of the type have a total order.
func (t *Type) IsComparable() bool {
	switch t.Kind() {
	case KindString, KindDateTime, KindBool, KindAny:
		return true
	}
	return t.IsNumeric()
}

// IsScalar reports whether the type is neither entity, collection nor map.
func (t *Type) IsScalar() bool {
	switch t.Kind() {
	case KindEntity, KindCollection, KindMap, KindInvalid:
		return false
	}
	return true
}

// numericRank orders numeric kinds for promotion.
var numericRank = map[Kind]int{
	KindInt8:    1,
	KindInt16:   2,
	KindInt32:   3,
	KindInt64:   4,
	KindFloat32: 5,
	KindFloat64: 6,
	KindDecimal: 7,
}

// Widest returns the promoted numeric type of a and b.
// Mixing int64 with float32 promotes to float64. Non-numeric operands yield
// the first operand unchanged.
func Widest(a, b *Type) *Type {
	if !a.IsNumeric() || !b.IsNumeric() {
		return a
	}
	ra, rb := numericRank[a.kind], numericRank[b.kind]
	if (a.kind == KindInt64 && b.kind == KindFloat32) || (a.kind == KindFloat32 && b.kind == KindInt64) {
		return Float64
	}
	if rb > ra {
		return b
	}
	return a
}

var (
	timeType    = reflect.TypeFor[time.Time]()
	decimalType = reflect.TypeFor[decimal.Decimal]()
)

// TypeFor returns the declared type for the Go type T.
func TypeFor[T any]() *Type {
	return TypeOfGo(reflect.TypeFor[T]())
}

// TypeOfGo maps a Go type onto a declared type.
//
// Structs (other than time.Time and decimal.Decimal) map to entity types named
// after the Go type. Unsigned integers widen to the next signed kind; uint and
// uint64 map to int64.
func TypeOfGo(rt reflect.Type) *Type {
	if rt == nil {
		return Null
	}
	switch rt {
	case timeType:
		return DateTime
	case decimalType:
		return Decimal
	}
	switch rt.Kind() {
	case reflect.Bool:
		return Bool
	case reflect.Int8:
		return Int8
	case reflect.Int16, reflect.Uint8:
		return Int16
	case reflect.Int32, reflect.Uint16:
		return Int32
	case reflect.Int, reflect.Int64, reflect.Uint32, reflect.Uint, reflect.Uint64:
		return Int64
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	case reflect.String:
		return String
	case reflect.Pointer:
		return TypeOfGo(rt.Elem())
	case reflect.Slice, reflect.Array:
		return CollectionOf(TypeOfGo(rt.Elem()))
	case reflect.Map:
		return MapOf(TypeOfGo(rt.Key()), TypeOfGo(rt.Elem()))
	case reflect.Struct:
		return EntityOf(rt.Name())
	default:
		return Any
	}
}

// TypeOfValue returns the declared type of a runtime value.
func TypeOfValue(v any) *Type {
	if v == nil {
		return Null
	}
	return TypeOfGo(reflect.TypeOf(v))
}

// ParseType parses the String form of a type: a kind name, "entity<Name>",
// "collection<T>" or "map<K,V>". It is the inverse of Type.String.
func ParseType(s string) (*Type, error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '<')
	if open < 0 {
		k, ok := ParseKind(s)
		if !ok {
			return nil, fmt.Errorf("unknown type %q", s)
		}
		if t := ScalarType(k); t != nil {
			return t, nil
		}
		return nil, fmt.Errorf("type %q needs a parameter", s)
	}
	if !strings.HasSuffix(s, ">") {
		return nil, fmt.Errorf("malformed type %q", s)
	}
	head, body := s[:open], s[open+1:len(s)-1]
	switch head {
	case "entity":
		if body == "" {
			return nil, fmt.Errorf("malformed type %q: empty entity name", s)
		}
		return EntityOf(body), nil
	case "collection":
		elem, err := ParseType(body)
		if err != nil {
			return nil, err
		}
		return CollectionOf(elem), nil
	case "map":
		comma := topLevelComma(body)
		if comma < 0 {
			return nil, fmt.Errorf("malformed type %q: map needs key and value", s)
		}
		key, err := ParseType(body[:comma])
		if err != nil {
			return nil, err
		}
		val, err := ParseType(body[comma+1:])
		if err != nil {
			return nil, err
		}
		return MapOf(key, val), nil
	}
	return nil, fmt.Errorf("unknown type %q", s)
}

func topLevelComma(s string) int {
	depth := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
