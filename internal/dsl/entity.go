package dsl

import (
	"fmt"

	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/ops"
	"github.com/roach88/pathql/internal/queryir"
)

// Entity is an entity-valued path. Generated metamodel types embed it.
type Entity struct{ p *queryir.Path }

// NewEntity returns the root path of a query variable over entity.
func NewEntity(entity, variable string) Entity {
	return Entity{queryir.NewVariable(entity, variable)}
}

// EntityOf wraps an entity path. It panics when e is not an entity path.
func EntityOf(e queryir.Expr) Entity {
	p, ok := e.(*queryir.Path)
	if !ok || p.Kind != queryir.PathEntity {
		panic(&queryir.ConstructionError{Member: "entity", Message: fmt.Sprintf("%v is not an entity path", e)})
	}
	return Entity{p}
}

// Expr returns the path.
func (e Entity) Expr() queryir.Expr { return e.p }

// Path returns the path.
func (e Entity) Path() *queryir.Path { return e.p }

// Variable returns the root variable name.
func (e Entity) Variable() string { return e.p.Root() }

// EntityName returns the entity type name.
func (e Entity) EntityName() string { return e.p.Type().Name() }

// StringField returns a string property.
func (e Entity) StringField(name string) String { return StringOf(e.p.StringChild(name)) }

// BoolField returns a bool property.
func (e Entity) BoolField(name string) Bool { return BoolOf(e.p.BooleanChild(name)) }

// DateTimeField returns a time.Time property.
func (e Entity) DateTimeField(name string) DateTime {
	return DateTimeOf(e.p.ComparableChild(name, ir.DateTime))
}

// EntityField returns a nested entity or embedded value property.
func (e Entity) EntityField(name, entity string) Entity {
	return Entity{e.p.EntityChild(name, entity)}
}

// ScalarField returns a property of arbitrary scalar type.
func (e Entity) ScalarField(name string, t *ir.Type) Raw {
	return Raw{e.p.ScalarChild(name, t)}
}

// NumberField returns a numeric property declared as T.
func NumberField[T Numeric](e Entity, name string) Number[T] {
	return NumberOf[T](e.p.ComparableChild(name, ir.TypeFor[T]()))
}

// ComparableField returns an ordered property of Go type T, e.g. decimal.Decimal.
func ComparableField[T any](e Entity, name string) Comparable[T] {
	return ComparableOf[T](e.p.ComparableChild(name, ir.TypeFor[T]()))
}

// Eq compares identity with another entity expression.
func (e Entity) Eq(o Expression) Bool { return Bool{operation(ops.Eq, e.p, o.Expr())} }

// Ne is the negation of Eq.
func (e Entity) Ne(o Expression) Bool { return Bool{operation(ops.Ne, e.p, o.Expr())} }

// In tests membership in a sub-query result.
func (e Entity) In(s Sub) Bool { return Bool{operation(ops.In, e.p, s.Expr())} }

// IsNull tests for a missing reference.
func (e Entity) IsNull() Bool { return isNull(e.p) }

// IsNotNull tests for a present reference.
func (e Entity) IsNotNull() Bool { return isNotNull(e.p) }

// Count counts non-null references.
func (e Entity) Count() Number[int64] { return NumberOf[int64](operation(ops.Count, e.p)) }

// CountDistinct counts distinct references.
func (e Entity) CountDistinct() Number[int64] {
	return NumberOf[int64](operation(ops.CountDistinct, e.p))
}

// As aliases e.
func (e Entity) As(name string) Aliased { return as(e.p, name) }
