package testutil

import (
	"reflect"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/pathql/internal/schema"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func id(v int64) *int64 { return &v }

// Cats returns a fresh, fully linked fixture graph:
//
//	Bob   mate Kate, owner Ann (Paris), kittens Tom and Kitty
//	Kate  mate Bob, owner Ann (Paris), no kittens
//	Tom   no mate, no owner
//	Kitty no mate, owner Bea (Oslo)
//
// Each call builds new values, so tests may modify the result.
func Cats() []*Cat {
	ann := &Owner{Name: "Ann", City: "Paris"}
	bob := &Cat{
		ID: 1, Name: "Bob", Weight: 6, BodyWeight: 4.5, Price: decimal.RequireFromString("10.50"),
		Alive: true, Birthdate: date(2020, time.January, 5), MateID: id(2), Owner: ann,
		Tags: []string{"black", "fat"},
	}
	kate := &Cat{
		ID: 2, Name: "Kate", Weight: 3, BodyWeight: 3.25, Price: decimal.RequireFromString("7.25"),
		Alive: true, Birthdate: date(2021, time.June, 15), MateID: id(1), Owner: ann,
		Tags: []string{"white"}, Kittens: []*Cat{},
	}
	tom := &Cat{
		ID: 3, Name: "Tom", Weight: 2, BodyWeight: 1.5, Price: decimal.NewFromInt(3),
		Birthdate: date(2022, time.December, 31),
	}
	kitty := &Cat{
		ID: 4, Name: "Kitty", Weight: 1, BodyWeight: 1, Price: decimal.RequireFromString("2.5"),
		Alive: true, Birthdate: date(2023, time.March, 1), Owner: &Owner{Name: "Bea", City: "Oslo"},
	}
	bob.Mate, kate.Mate = kate, bob
	bob.Kittens = []*Cat{tom, kitty}
	bob.KittensByName = map[string]*Cat{"Tom": tom, "Kitty": kitty}
	return []*Cat{bob, kate, tom, kitty}
}

// Sources returns the fixture collections keyed by entity name.
func Sources() map[string][]any {
	cats := Cats()
	out := make([]any, len(cats))
	for i, c := range cats {
		out[i] = c
	}
	return map[string][]any{"Cat": out}
}

// Registry returns a registry holding Cat and Owner.
func Registry() *schema.Registry {
	reg := schema.NewRegistry()
	if err := reg.RegisterType(reflect.TypeFor[Cat]()); err != nil {
		panic(err)
	}
	return reg
}
