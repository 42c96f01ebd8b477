package dsl

import (
	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/ops"
	"github.com/roach88/pathql/internal/queryir"
)

// Collection is a collection-valued path whose elements are wrapped as E.
type Collection[E any] struct {
	p    *queryir.Path
	wrap func(queryir.Expr) E
}

// CollectionField returns a collection property with element type elem. wrap
// turns element paths into facades, e.g. StringOf or EntityOf.
func CollectionField[E any](e Entity, name string, elem *ir.Type, wrap func(queryir.Expr) E) Collection[E] {
	return Collection[E]{p: e.p.CollectionChild(name, elem), wrap: wrap}
}

// EntityCollectionField returns a collection of entities.
func EntityCollectionField(e Entity, name, entity string) Collection[Entity] {
	return CollectionField(e, name, ir.EntityOf(entity), EntityOf)
}

// Expr returns the path.
func (c Collection[E]) Expr() queryir.Expr { return c.p }

// Path returns the path.
func (c Collection[E]) Path() *queryir.Path { return c.p }

// Size returns the number of elements.
func (c Collection[E]) Size() Number[int32] { return NumberOf[int32](operation(ops.ColSize, c.p)) }

// IsEmpty tests for no elements.
func (c Collection[E]) IsEmpty() Bool { return Bool{operation(ops.ColIsEmpty, c.p)} }

// IsNotEmpty tests for at least one element.
func (c Collection[E]) IsNotEmpty() Bool { return c.IsEmpty().Not() }

// Contains tests membership of a constant or, when v is an Expression, of
// its value.
func (c Collection[E]) Contains(v any) Bool {
	return Bool{operation(ops.ColContains, c.p, constant(v))}
}

// Get returns element i.
func (c Collection[E]) Get(i int) E { return c.wrap(c.p.Element(i)) }

// Any returns the element wrapped at a fresh variable, for use as the target
// variable of a join.
func (c Collection[E]) Any(variable string) E {
	return c.wrap(queryir.NewPath(queryir.ForVariable(variable), c.p.Type().Elem()))
}

// Map is a map-valued path whose values are wrapped as V.
type Map[V any] struct {
	p    *queryir.Path
	wrap func(queryir.Expr) V
}

// MapField returns a map property.
func MapField[V any](e Entity, name string, key, value *ir.Type, wrap func(queryir.Expr) V) Map[V] {
	return Map[V]{p: e.p.MapChild(name, key, value), wrap: wrap}
}

// Expr returns the path.
func (m Map[V]) Expr() queryir.Expr { return m.p }

// Size returns the number of entries.
func (m Map[V]) Size() Number[int32] { return NumberOf[int32](operation(ops.MapSize, m.p)) }

// ContainsKey tests for a key.
func (m Map[V]) ContainsKey(key any) Bool {
	return Bool{operation(ops.MapContainsKey, m.p, constant(key))}
}

// Get returns the value under key.
func (m Map[V]) Get(key string) V { return m.wrap(m.p.Value(key)) }

// As aliases the collection, e.g. as a join source of a sub-query.
func (c Collection[E]) As(variable string) Aliased { return as(c.p, variable) }
