// Package schema describes queryable entities: their names and properties,
// and how each property maps to a typed path.
//
// Descriptors come from Go struct types (FromType, For) or from CUE schema
// files (package compiler). Both produce the same *Entity shape.
package schema

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/queryir"
)

// TagName is the struct tag that renames or hides a property.
//
//	Name string `query:"name"`
//	Secret string `query:"-"`
const TagName = "query"

// Property is one queryable member of an entity.
type Property struct {
	Name  string // query name
	Field string // Go field name, empty for CUE-defined entities
	Index []int  // reflect field index, nil for CUE-defined entities
	Type  *ir.Type
	Kind  queryir.PathKind
}

// IsTerminal reports whether navigating the property ends capture: scalars,
// collections and maps are terminal, nested entities are not.
func (p Property) IsTerminal() bool {
	return p.Kind != queryir.PathEntity
}

// PathFrom derives the property's path below parent, which must be an entity
// path.
func (p Property) PathFrom(parent *queryir.Path) *queryir.Path {
	switch p.Kind {
	case queryir.PathString:
		return parent.StringChild(p.Name)
	case queryir.PathBoolean:
		return parent.BooleanChild(p.Name)
	case queryir.PathComparable:
		return parent.ComparableChild(p.Name, p.Type)
	case queryir.PathEntity:
		return parent.EntityChild(p.Name, p.Type.Name())
	case queryir.PathEntityCollection, queryir.PathScalarCollection:
		return parent.CollectionChild(p.Name, p.Type.Elem())
	case queryir.PathMap:
		return parent.MapChild(p.Name, p.Type.Key(), p.Type.Elem())
	default:
		return parent.ScalarChild(p.Name, p.Type)
	}
}

// Entity describes a queryable type.
type Entity struct {
	Name       string
	GoType     reflect.Type // nil for CUE-defined entities
	Properties []Property   // declaration order
	byName     map[string]int
}

// NewEntity builds a descriptor from explicit properties. Property kinds are
// derived from their types when left as the zero value.
func NewEntity(name string, props ...Property) (*Entity, error) {
	e := &Entity{Name: name, byName: make(map[string]int, len(props))}
	for _, p := range props {
		if err := e.add(p); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Entity) add(p Property) error {
	if p.Name == "" {
		return fmt.Errorf("entity %s: property with empty name", e.Name)
	}
	if p.Type == nil {
		return fmt.Errorf("entity %s: property %s has no type", e.Name, p.Name)
	}
	if _, dup := e.byName[p.Name]; dup {
		return fmt.Errorf("entity %s: duplicate property %s", e.Name, p.Name)
	}
	if p.Kind == queryir.PathEntity && p.Type.Kind() != ir.KindEntity {
		p.Kind = queryir.PathKindFor(p.Type)
	}
	e.byName[p.Name] = len(e.Properties)
	e.Properties = append(e.Properties, p)
	return nil
}

// Type returns the entity's declared type.
func (e *Entity) Type() *ir.Type { return ir.EntityOf(e.Name) }

// Property returns the named property.
func (e *Entity) Property(name string) (Property, bool) {
	i, ok := e.byName[name]
	if !ok {
		return Property{}, false
	}
	return e.Properties[i], true
}

// PropertyNames returns property names in declaration order.
func (e *Entity) PropertyNames() []string {
	out := make([]string, len(e.Properties))
	for i, p := range e.Properties {
		out[i] = p.Name
	}
	return out
}

// Variable returns the root path for a query variable over this entity.
func (e *Entity) Variable(name string) *queryir.Path {
	return queryir.NewVariable(e.Name, name)
}

var cache sync.Map // reflect.Type → *Entity

// For returns the descriptor of the struct type T.
func For[T any]() (*Entity, error) {
	return FromType(reflect.TypeFor[T]())
}

// MustFor is like For but panics on error.
func MustFor[T any]() *Entity {
	e, err := For[T]()
	if err != nil {
		panic(err)
	}
	return e
}

// FromType builds the descriptor of a struct type (or pointer to one).
// Results are cached per type.
//
// Exported fields become properties named by their `query` tag, or by the
// field name with a lower-case first letter. Fields tagged `query:"-"` are
// skipped. Anonymous embedded structs are flattened.
func FromType(rt reflect.Type) (*Entity, error) {
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: %v is not a struct type", rt)
	}
	if e, ok := cache.Load(rt); ok {
		return e.(*Entity), nil
	}
	e := &Entity{Name: rt.Name(), GoType: rt, byName: map[string]int{}}
	if err := collectFields(e, rt, nil); err != nil {
		return nil, err
	}
	actual, _ := cache.LoadOrStore(rt, e)
	return actual.(*Entity), nil
}

func collectFields(e *Entity, rt reflect.Type, prefix []int) error {
	for i := range rt.NumField() {
		f := rt.Field(i)
		index := append(slices.Clone(prefix), i)
		tag := f.Tag.Get(TagName)
		if tag == "-" {
			continue
		}
		if f.Anonymous && tag == "" && derefStruct(f.Type) && ir.TypeOfGo(f.Type).Kind() == ir.KindEntity {
			if f.Type.Kind() == reflect.Pointer {
				return fmt.Errorf("schema: %s.%s: embedded pointers are not supported", rt.Name(), f.Name)
			}
			if err := collectFields(e, f.Type, index); err != nil {
				return err
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		name := tag
		if name == "" {
			name = lowerFirst(f.Name)
		}
		t := ir.TypeOfGo(f.Type)
		if err := e.add(Property{Name: name, Field: f.Name, Index: index, Type: t, Kind: queryir.PathKindFor(t)}); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

func derefStruct(rt reflect.Type) bool {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt.Kind() == reflect.Struct
}

// Collect returns the descriptor of rt and of every entity type reachable
// from its properties, in discovery order.
func Collect(rt reflect.Type) ([]*Entity, error) {
	var out []*Entity
	seen := map[reflect.Type]bool{}
	var visit func(reflect.Type) error
	visit = func(t reflect.Type) error {
		for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array || t.Kind() == reflect.Map {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct || ir.TypeOfGo(t).Kind() != ir.KindEntity || seen[t] {
			return nil
		}
		seen[t] = true
		e, err := FromType(t)
		if err != nil {
			return err
		}
		out = append(out, e)
		for _, p := range e.Properties {
			if err := visit(t.FieldByIndex(p.Index).Type); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(rt); err != nil {
		return nil, err
	}
	return out, nil
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	// Leading acronyms lower-case as a whole: "ID" → "id", "URLPath" → "urlPath".
	upper := 0
	for _, c := range s {
		if !unicode.IsUpper(c) {
			break
		}
		upper++
	}
	if upper > 1 {
		if upper == utf8.RuneCountInString(s) {
			return strings.ToLower(s)
		}
		runes := []rune(s)
		return strings.ToLower(string(runes[:upper-1])) + string(runes[upper-1:])
	}
	return string(unicode.ToLower(r)) + s[n:]
}
