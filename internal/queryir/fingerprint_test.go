package queryir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/ops"
)

func buildPredicate(name string) Expr {
	cat := NewVariable("Cat", "cat")
	return MustOperation(ops.And,
		MustOperation(ops.Eq, cat.StringChild("name"), NewConstant(name)),
		MustOperation(ops.Lt, cat.ComparableChild("birthdate", ir.DateTime),
			NewConstant(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))),
	)
}

func TestFingerprintStructural(t *testing.T) {
	a, err := Fingerprint(buildPredicate("Bob"))
	require.NoError(t, err)
	b, err := Fingerprint(buildPredicate("Bob"))
	require.NoError(t, err)
	c, err := Fingerprint(buildPredicate("Alice"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestFingerprintDistinguishesTypes(t *testing.T) {
	a, err := Fingerprint(NewConstant(int32(1)))
	require.NoError(t, err)
	b, err := Fingerprint(NewConstant(int64(1)))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestFingerprintRejectsOpaqueConstants(t *testing.T) {
	_, err := Fingerprint(NewConstant(struct{}{}))
	assert.Error(t, err)
}

func TestDocumentShape(t *testing.T) {
	cat := NewVariable("Cat", "cat")
	doc := Document(MustOperation(ops.Eq, cat.StringChild("name"), NewConstant("Bob")))
	data, err := ir.MarshalCanonical(doc)
	require.NoError(t, err)
	assert.Equal(t,
		`{"args":[{"path":"cat.name","type":"string"},{"const":"Bob","type":"string"}],"op":"EQ","type":"bool"}`,
		string(data))
}

func TestQueryFingerprint(t *testing.T) {
	cat := NewVariable("Cat", "cat")
	q := func(limit int) *Query {
		return &Query{Select: cat.StringChild("name"), From: []Source{{Expr: cat}}, Limit: limit}
	}
	a, err := QueryFingerprint(q(1))
	require.NoError(t, err)
	b, err := QueryFingerprint(q(2))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
