package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize_HQL(t *testing.T) {
	out, _, err := execute(t, "serialize", query("alive"))
	require.NoError(t, err)
	assert.Equal(t,
		"select cat.name, cat.weight from Cat cat where cat.alive and cat.weight > 1 order by cat.weight desc\n",
		out)
}

func TestSerialize_SQLiteParams(t *testing.T) {
	out, _, err := execute(t, "--dialect", "sqlite", "serialize", "--params", query("alive"))
	require.NoError(t, err)
	assert.Contains(t, out, "cat.weight > ?")
	assert.Contains(t, out, "\n  $1 = 1\n")
}

func TestSerialize_JSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "--dialect", "sqlite", "serialize", "--params", query("alive"))
	require.NoError(t, err)

	var result SerializeResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "sqlite", result.Dialect)
	assert.Contains(t, result.Query, "?")
	assert.Equal(t, []any{float64(1)}, result.Params)
}

func TestSerialize_InlineHasNoParams(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "serialize", query("alive"))
	require.NoError(t, err)

	var result SerializeResult
	decodeResponse(t, out, &result)
	assert.Equal(t, "hql", result.Dialect)
	assert.Empty(t, result.Params)
}

func TestSerialize_NeedsJoin(t *testing.T) {
	// HQL navigates nested paths; the SQLite dialect has no joins to do it.
	_, _, err := execute(t, "serialize", query("owner_cities"))
	require.NoError(t, err)

	out, _, err := execute(t, "--format", "json", "--dialect", "sqlite", "serialize", query("owner_cities"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeSerialize, resp.Error.Code)
	assert.Equal(t, "cannot render query in sqlite", resp.Error.Message)
	assert.Contains(t, resp.Error.Details, "needs a join")
}

func TestSerialize_InvalidQuery(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "serialize", query("invalid"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeQuery, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, `no property "color"`)
}

func TestSerialize_MissingFile(t *testing.T) {
	out, _, err := execute(t, "serialize", query("absent"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]: query file not found")
}

func TestSerialize_BadSchemaDir(t *testing.T) {
	_, _, err := execute(t, "--schema-dir", t.TempDir()+"/none", "serialize", query("alive"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
