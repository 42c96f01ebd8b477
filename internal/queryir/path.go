package queryir

import (
	"fmt"

	"github.com/roach88/pathql/internal/ir"
)

// PathKind is the sub-variant of a Path.
type PathKind int

const (
	PathEntity PathKind = iota
	PathScalar
	PathBoolean
	PathString
	PathComparable
	PathEntityCollection
	PathScalarCollection
	PathMap
)

var pathKindNames = map[PathKind]string{
	PathEntity:           "entity",
	PathScalar:           "scalar",
	PathBoolean:          "boolean",
	PathString:           "string",
	PathComparable:       "comparable",
	PathEntityCollection: "entity collection",
	PathScalarCollection: "scalar collection",
	PathMap:              "map",
}

func (k PathKind) String() string { return pathKindNames[k] }

// PathKindFor returns the natural path sub-variant for a declared type.
func PathKindFor(t *ir.Type) PathKind {
	switch t.Kind() {
	case ir.KindEntity:
		return PathEntity
	case ir.KindBool:
		return PathBoolean
	case ir.KindString:
		return PathString
	case ir.KindCollection:
		if t.Elem().Kind() == ir.KindEntity {
			return PathEntityCollection
		}
		return PathScalarCollection
	case ir.KindMap:
		return PathMap
	}
	if t.IsComparable() {
		return PathComparable
	}
	return PathScalar
}

// Path is an expression naming a position reachable from a root variable.
type Path struct {
	Metadata     *PathMetadata
	Kind         PathKind
	DeclaredType *ir.Type
}

func (*Path) exprNode() {}

// NewPath builds a path whose kind follows from t.
func NewPath(md *PathMetadata, t *ir.Type) *Path {
	return &Path{Metadata: md, Kind: PathKindFor(t), DeclaredType: t}
}

// NewVariable returns a root entity path, e.g. NewVariable("Cat", "cat").
func NewVariable(entity, variable string) *Path {
	return NewPath(ForVariable(variable), ir.EntityOf(entity))
}

// Type returns the declared type.
func (p *Path) Type() *ir.Type { return p.DeclaredType }

func (p *Path) String() string { return p.Metadata.String() }

// Root returns the root variable name.
func (p *Path) Root() string { return p.Metadata.Root().Name() }

// Equal reports structural equality of metadata and declared type.
func (p *Path) Equal(o *Path) bool {
	return p.Kind == o.Kind && p.Metadata.Equal(o.Metadata) && p.DeclaredType.Equal(o.DeclaredType)
}

func (p *Path) child(name string, t *ir.Type) *Path {
	if p.Kind != PathEntity {
		panic(&ConstructionError{Member: name, Message: fmt.Sprintf("%s path %s has no properties", p.Kind, p)})
	}
	return NewPath(ForProperty(p.Metadata, name), t)
}

// StringChild returns the string property name.
func (p *Path) StringChild(name string) *Path { return p.child(name, ir.String) }

// BooleanChild returns the bool property name.
func (p *Path) BooleanChild(name string) *Path { return p.child(name, ir.Bool) }

// ComparableChild returns an ordered property (numbers, date-times).
func (p *Path) ComparableChild(name string, t *ir.Type) *Path { return p.child(name, t) }

// ScalarChild returns a property of arbitrary scalar type. The path kind is
// always PathScalar, regardless of t.
func (p *Path) ScalarChild(name string, t *ir.Type) *Path {
	c := p.child(name, t)
	c.Kind = PathScalar
	return c
}

// EntityChild returns a nested entity (or embedded value) property.
func (p *Path) EntityChild(name, entity string) *Path {
	return p.child(name, ir.EntityOf(entity))
}

// CollectionChild returns a collection property with element type elem.
func (p *Path) CollectionChild(name string, elem *ir.Type) *Path {
	return p.child(name, ir.CollectionOf(elem))
}

// MapChild returns a map property.
func (p *Path) MapChild(name string, key, value *ir.Type) *Path {
	return p.child(name, ir.MapOf(key, value))
}

// Element returns the path of element i of a collection path.
func (p *Path) Element(i int) *Path {
	if p.Kind != PathEntityCollection && p.Kind != PathScalarCollection {
		panic(&ConstructionError{Member: fmt.Sprintf("[%d]", i), Message: fmt.Sprintf("%s path %s is not a collection", p.Kind, p)})
	}
	return NewPath(ForListAccess(p.Metadata, i), p.DeclaredType.Elem())
}

// Value returns the path of the value under key of a map path.
func (p *Path) Value(key string) *Path {
	if p.Kind != PathMap {
		panic(&ConstructionError{Member: fmt.Sprintf("[%q]", key), Message: fmt.Sprintf("%s path %s is not a map", p.Kind, p)})
	}
	return NewPath(ForMapAccess(p.Metadata, key), p.DeclaredType.Elem())
}
