package testutil

import (
	"github.com/shopspring/decimal"

	"github.com/roach88/pathql/internal/dsl"
	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/queryir"
)

// QCat is the metamodel of Cat as a generator would emit it.
type QCat struct {
	dsl.Entity
	ID            dsl.Number[int64]
	Name          dsl.String
	Weight        dsl.Number[int32]
	BodyWeight    dsl.Number[float64]
	Price         dsl.Comparable[decimal.Decimal]
	Alive         dsl.Bool
	Birthdate     dsl.DateTime
	MateID        dsl.Number[int64]
	Owner         QOwner
	Kittens       dsl.Collection[QCat]
	KittensByName dsl.Map[QCat]
	Tags          dsl.Collection[dsl.String]
}

// QOwner is the metamodel of the embedded Owner value.
type QOwner struct {
	dsl.Entity
	Name dsl.String
	City dsl.String
}

// CatVar is the default variable "cat".
var CatVar = NewQCat("cat")

// NewQCat returns the metamodel rooted at variable.
func NewQCat(variable string) QCat {
	return qCatAt(dsl.NewEntity("Cat", variable))
}

func qCatAt(e dsl.Entity) QCat {
	owner := e.EntityField("owner", "Owner")
	return QCat{
		Entity:        e,
		ID:            dsl.NumberField[int64](e, "id"),
		Name:          e.StringField("name"),
		Weight:        dsl.NumberField[int32](e, "weight"),
		BodyWeight:    dsl.NumberField[float64](e, "bodyWeight"),
		Price:         dsl.ComparableField[decimal.Decimal](e, "price"),
		Alive:         e.BoolField("alive"),
		Birthdate:     e.DateTimeField("birthdate"),
		MateID:        dsl.NumberField[int64](e, "mateId"),
		Owner:         QOwner{Entity: owner, Name: owner.StringField("name"), City: owner.StringField("city")},
		Kittens:       dsl.CollectionField(e, "kittens", ir.EntityOf("Cat"), qCatOf),
		KittensByName: dsl.MapField(e, "kittensByName", ir.String, ir.EntityOf("Cat"), qCatOf),
		Tags:          dsl.CollectionField(e, "tags", ir.String, dsl.StringOf),
	}
}

func qCatOf(e queryir.Expr) QCat { return qCatAt(dsl.EntityOf(e)) }

// Mate navigates to the mate reference. It is a method because the
// metamodel is recursive.
func (c QCat) Mate() QCat { return qCatAt(c.EntityField("mate", "Cat")) }
