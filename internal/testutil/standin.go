package testutil

import (
	"github.com/roach88/pathql/internal/alias"
	"github.com/roach88/pathql/internal/queryir"
	"github.com/roach88/pathql/internal/schema"
)

// CatEntity is the descriptor of Cat.
var CatEntity = schema.MustFor[Cat]()

// CatAlias is a typed stand-in for Cat, the shape an alias generator emits:
// one accessor per member, structured members return further stand-ins.
type CatAlias struct{ *alias.StandIn }

// OwnerAlias is a typed stand-in for Owner.
type OwnerAlias struct{ *alias.StandIn }

// NewCatAlias returns the root stand-in for variable in s.
func NewCatAlias(s *alias.Session, variable string) CatAlias {
	return CatAlias{s.CreateRootAlias(CatEntity, variable)}
}

func (c CatAlias) Name() *queryir.Path { return c.MustField("name") }

func (c CatAlias) Weight() *queryir.Path { return c.MustField("weight") }

func (c CatAlias) Alive() *queryir.Path { return c.MustField("alive") }

func (c CatAlias) Birthdate() *queryir.Path { return c.MustField("birthdate") }

func (c CatAlias) Kittens() *queryir.Path { return c.MustField("kittens") }

func (c CatAlias) Mate() CatAlias { return CatAlias{c.MustChild("mate")} }

func (c CatAlias) Owner() OwnerAlias { return OwnerAlias{c.MustChild("owner")} }

func (o OwnerAlias) Name() *queryir.Path { return o.MustField("name") }

func (o OwnerAlias) City() *queryir.Path { return o.MustField("city") }

// Kitten returns a stand-in for element i of kittens.
func (c CatAlias) Kitten(i int) CatAlias {
	v, err := c.Index("kittens", i)
	if err != nil {
		panic(err)
	}
	return CatAlias{v.(*alias.StandIn)}
}
