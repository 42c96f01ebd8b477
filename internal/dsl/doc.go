// Package dsl is the statically-typed builder facade over queryir.
//
// Each facade (Bool, String, Number[T], DateTime, Entity, Collection[E],
// Map[V]) wraps one queryir.Expr and only offers operations whose operand
// types are valid, so trees built here never fail construction. Metamodel
// types embed Entity and expose fields built with the field factories:
//
//	type QCat struct {
//		dsl.Entity
//		Name   dsl.String
//		Weight dsl.Number[int32]
//	}
//
//	func NewQCat(variable string) QCat {
//		e := dsl.NewEntity("Cat", variable)
//		return QCat{Entity: e, Name: e.StringField("name"), Weight: dsl.NumberField[int32](e, "weight")}
//	}
//
// Queries are assembled with Select(...).From(...).Where(...).Build().
package dsl
