package testutil

import (
	"time"

	"github.com/shopspring/decimal"
)

// Owner is a value embedded in Cat.
type Owner struct {
	Name string
	City string
}

// Cat is the sample entity.
type Cat struct {
	ID            int64
	Name          string
	Weight        int32
	BodyWeight    float64
	Price         decimal.Decimal
	Alive         bool
	Birthdate     time.Time
	MateID        *int64 `query:"mateId"`
	Mate          *Cat
	Owner         *Owner
	Kittens       []*Cat
	KittensByName map[string]*Cat
	Tags          []string
}
