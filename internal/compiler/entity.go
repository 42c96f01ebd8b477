package compiler

import (
	"errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue"

	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/schema"
)

// CompileSchema compiles every entity under the top-level "entity" field of
// v. Entity references are resolved against the entities of v only.
//
//	entity: Cat: {
//		name:      "string"
//		weight:    "int32"
//		birthdate: "datetime"
//		mate:      "Cat"
//		kittens:   "[]Kitten"
//		byName:    "map[string]Kitten"
//		alive:     bool
//	}
func CompileSchema(v cue.Value) ([]*schema.Entity, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	entitiesVal := v.LookupPath(cue.ParsePath("entity"))
	if !entitiesVal.Exists() {
		return nil, &CompileError{Field: "entity", Message: "no entities defined", Pos: v.Pos()}
	}

	iter, err := entitiesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []*schema.Entity
	for iter.Next() {
		e, err := CompileEntity(iter.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	known := make(map[string]bool, len(out))
	for _, e := range out {
		known[e.Name] = true
	}
	for _, e := range out {
		for _, p := range e.Properties {
			if ref := entityRef(p.Type); ref != "" && !known[ref] {
				return nil, &CompileError{
					Field:   fmt.Sprintf("entity.%s.%s", e.Name, p.Name),
					Message: fmt.Sprintf("unknown entity %q", ref),
					Pos:     entitiesVal.LookupPath(cue.MakePath(cue.Str(e.Name), cue.Str(p.Name))).Pos(),
				}
			}
		}
	}
	return out, nil
}

// CompileEntity compiles one entity struct. The entity name is the last path
// selector of v.
func CompileEntity(v cue.Value) (*schema.Entity, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	var name string
	if labels := v.Path().Selectors(); len(labels) > 0 {
		name = labels[len(labels)-1].String()
	}
	if name == "" {
		return nil, &CompileError{Field: "entity", Message: "entity name is required", Pos: v.Pos()}
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var props []schema.Property
	for iter.Next() {
		t, err := propertyType(iter.Value())
		if err != nil {
			var ce *CompileError
			if errors.As(err, &ce) {
				ce.Field = fmt.Sprintf("entity.%s.%s", name, iter.Label())
			}
			return nil, err
		}
		props = append(props, schema.Property{Name: iter.Label(), Type: t})
	}
	if len(props) == 0 {
		return nil, &CompileError{Field: "entity." + name, Message: "at least one property is required", Pos: v.Pos()}
	}

	e, err := schema.NewEntity(name, props...)
	if err != nil {
		return nil, &CompileError{Field: "entity." + name, Message: err.Error(), Pos: v.Pos()}
	}
	return e, nil
}

// propertyType reads a property's declared type: either a concrete type
// expression string, or the CUE kind of an abstract value.
func propertyType(v cue.Value) (*ir.Type, error) {
	if s, err := v.String(); err == nil {
		t, err := ParseTypeExpr(s)
		if err != nil {
			return nil, &CompileError{Message: err.Error(), Pos: v.Pos()}
		}
		return t, nil
	}
	switch v.IncompleteKind() {
	case cue.StringKind:
		return ir.String, nil
	case cue.IntKind:
		return ir.Int64, nil
	case cue.FloatKind, cue.NumberKind:
		return ir.Float64, nil
	case cue.BoolKind:
		return ir.Bool, nil
	}
	return nil, &CompileError{
		Message: fmt.Sprintf("unsupported type kind: %v", v.IncompleteKind()),
		Pos:     v.Pos(),
	}
}

// ParseTypeExpr parses a type expression: a kind name ("int32", "string",
// "datetime", ...), an entity name ("Cat"), "[]T" or "map[K]V".
func ParseTypeExpr(s string) (*ir.Type, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, fmt.Errorf("empty type expression")
	case strings.HasPrefix(s, "[]"):
		elem, err := ParseTypeExpr(s[2:])
		if err != nil {
			return nil, err
		}
		return ir.CollectionOf(elem), nil
	case strings.HasPrefix(s, "map["):
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, fmt.Errorf("malformed map type %q", s)
		}
		key, err := ParseTypeExpr(s[4:end])
		if err != nil {
			return nil, err
		}
		if !key.IsScalar() {
			return nil, fmt.Errorf("map key must be scalar in %q", s)
		}
		val, err := ParseTypeExpr(s[end+1:])
		if err != nil {
			return nil, err
		}
		return ir.MapOf(key, val), nil
	}
	if k, ok := ir.ParseKind(s); ok {
		if t := ir.ScalarType(k); t != nil {
			return t, nil
		}
		return nil, fmt.Errorf("%q needs a parameter", s)
	}
	if isIdent(s) && s[0] >= 'A' && s[0] <= 'Z' {
		return ir.EntityOf(s), nil
	}
	return nil, fmt.Errorf("unknown type %q", s)
}

func isIdent(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return s != ""
}

// entityRef returns the entity name a type refers to, if any.
func entityRef(t *ir.Type) string {
	switch t.Kind() {
	case ir.KindEntity:
		return t.Name()
	case ir.KindCollection, ir.KindMap:
		return entityRef(t.Elem())
	}
	return ""
}
