package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashDeterminism(t *testing.T) {
	doc := Object{"op": "EQ", "args": Array{"cat.name", "Bob"}}

	h1, err := Hash(DomainExpr, doc)
	require.NoError(t, err)
	h2, err := Hash(DomainExpr, Object{"args": Array{"cat.name", "Bob"}, "op": "EQ"})
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "key order must not matter")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestHashDomainSeparation(t *testing.T) {
	doc := Object{"v": 1}
	assert.NotEqual(t, MustHash(DomainExpr, doc), MustHash(DomainResult, doc))
}

func TestHashChangesWithInput(t *testing.T) {
	assert.NotEqual(t, MustHash(DomainExpr, Object{"v": 1}), MustHash(DomainExpr, Object{"v": 2}))
}

func TestHashError(t *testing.T) {
	_, err := Hash(DomainExpr, struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), DomainExpr)

	assert.Panics(t, func() { MustHash(DomainExpr, struct{}{}) })
}
