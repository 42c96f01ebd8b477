package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pricesText = "Kate\t7.25\t2021-06-15 00:00:00\nBob\t10.5\t2020-01-05 00:00:00\n(2 rows)\n"

func TestEval_Backends(t *testing.T) {
	for _, backend := range []string{BackendMemory, BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			out, _, err := execute(t, "eval", query("prices"), "--data", testFixtures, "--backend", backend)
			require.NoError(t, err)
			assert.Equal(t, pricesText, out)
		})
	}
}

func TestEval_JSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "eval", query("alive"), "--data", testFixtures)
	require.NoError(t, err)

	var result EvalResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, BackendMemory, result.Backend)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, []any{
		[]any{"Bob", float64(6)},
		[]any{"Kate", float64(3)},
	}, result.Rows)
}

func TestEval_Distinct(t *testing.T) {
	out, _, err := execute(t, "eval", query("owner_cities"), "--data", testFixtures)
	require.NoError(t, err)
	// Tom has no owner; nulls sort first.
	assert.Equal(t, "null\nOslo\nParis\n(3 rows)\n", out)
}

func TestEval_MissingDataFlag(t *testing.T) {
	_, _, err := execute(t, "eval", query("alive"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data")
}

func TestEval_MissingDataFile(t *testing.T) {
	out, _, err := execute(t, "eval", query("alive"), "--data", "absent.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "fixture file not found: absent.yaml")
}

func TestEval_InvalidBackend(t *testing.T) {
	_, _, err := execute(t, "eval", query("alive"), "--data", testFixtures, "--backend", "postgres")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEval_BadFixtures(t *testing.T) {
	data := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(data, []byte("Cat:\n  - {id: 1, color: black}\n"), 0644))

	out, _, err := execute(t, "--format", "json", "eval", query("alive"), "--data", data)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeFixtures, resp.Error.Code)
}

func TestEval_DivisionByZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "divide.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`vars: {cat: Cat}
select: {op: DIV, args: [{path: cat.weight}, {const: 0, type: int32}]}
from:
  - source: {path: cat}
`), 0644))

	out, _, err := execute(t, "--format", "json", "eval", path, "--data", testFixtures)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeEval, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "division by zero")
}
