package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowQuota_WithinLimit(t *testing.T) {
	q := newRowQuota(10)
	for i := 0; i < 10; i++ {
		assert.NoError(t, q.Check(), "row %d should be allowed", i+1)
	}
	assert.Equal(t, 10, q.current)
}

func TestRowQuota_ExceedsLimit(t *testing.T) {
	q := newRowQuota(3)
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Check())
	}

	err := q.Check()
	require.Error(t, err)
	assert.True(t, IsRowLimitError(err))

	var rle *RowLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, 4, rle.Rows)
	assert.Equal(t, 3, rle.Limit)
	assert.Equal(t, "query exceeded row limit: 4 rows > 3 limit", err.Error())
}

func TestRowQuota_Disabled(t *testing.T) {
	var nilQuota *rowQuota
	assert.NoError(t, nilQuota.Check())

	q := newRowQuota(0)
	for i := 0; i < 100; i++ {
		require.NoError(t, q.Check())
	}
}

func TestIsRowLimitError_Wrapped(t *testing.T) {
	err := fmt.Errorf("join: %w", &RowLimitError{Rows: 2, Limit: 1})
	assert.True(t, IsRowLimitError(err))
	assert.False(t, IsRowLimitError(fmt.Errorf("other")))
}
