package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pathql/internal/alias"
	"github.com/roach88/pathql/internal/ir"
)

func TestCatsFixture(t *testing.T) {
	cats := Cats()
	require.Len(t, cats, 4)
	bob, kate := cats[0], cats[1]
	assert.Same(t, kate, bob.Mate)
	assert.Same(t, bob, kate.Mate)
	assert.Equal(t, int64(2), *bob.MateID)
	assert.Len(t, bob.Kittens, 2)
	assert.NotSame(t, Cats()[0], bob)
}

func TestCatEntity(t *testing.T) {
	assert.Equal(t, "Cat", CatEntity.Name)
	assert.Equal(t, []string{
		"id", "name", "weight", "bodyWeight", "price", "alive", "birthdate",
		"mateId", "mate", "owner", "kittens", "kittensByName", "tags",
	}, CatEntity.PropertyNames())

	p, ok := CatEntity.Property("price")
	require.True(t, ok)
	assert.Equal(t, ir.Decimal, p.Type)
}

func TestQCat(t *testing.T) {
	c := NewQCat("c")
	assert.Equal(t, "c.owner.city", c.Owner.City.Expr().String())
	assert.Equal(t, "c.mate.mate.name", c.Mate().Mate().Name.Expr().String())
	assert.Equal(t, "c.kittens[1].weight", c.Kittens.Get(1).Weight.Expr().String())
	assert.Equal(t, "c.kittensByName['Tom'].name", c.KittensByName.Get("Tom").Name.Expr().String())
	assert.Equal(t, "cat", CatVar.Variable())
}

func TestCatAlias(t *testing.T) {
	s := alias.NewFactory().NewSession()
	c := NewCatAlias(s, "c")
	assert.Equal(t, "c.mate.owner.name", c.Mate().Owner().Name().String())
	assert.Equal(t, "c.mate.owner.name", s.Current().String())
	assert.Equal(t, "c.kittens[0].name", c.Kitten(0).Name().String())
}

func TestRegistry(t *testing.T) {
	reg := Registry()
	assert.Equal(t, []string{"Cat", "Owner"}, reg.Names())
	cat, ok := reg.Lookup("Cat")
	require.True(t, ok)
	p, ok := cat.Property("mateId")
	require.True(t, ok)
	assert.True(t, ir.Int64.Equal(p.Type))
}
