package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pathql/internal/ir"
)

// Golden files live in testdata/golden. To regenerate after an intended
// change in serialization or evaluation:
//
//	go test ./internal/harness -run TestGolden -update
func TestGolden_RepositoryScenarios(t *testing.T) {
	for _, name := range []string{"alive_cats", "mates_and_dates"} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join(scenarioDir, name+".yaml"))
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestSnapshot_CanonicalForm(t *testing.T) {
	snapshot := Snapshot{
		ScenarioName: "snap",
		Steps: []StepResult{
			{Name: "ok", HQL: "h", SQLite: "s", Rows: []any{[]any{"Bob", int32(6)}}},
			{Name: "bad", HQL: "h", SQLiteError: "nope", Error: "boom"},
		},
	}

	data, err := ir.MarshalCanonical(snapshot.toCanonicalMap())
	require.NoError(t, err)
	assert.Equal(t,
		`{"scenario":"snap","steps":[{"hql":"h","name":"ok","rows":[["Bob",6]],"sqlite":"s"},{"error":"boom","hql":"h","name":"bad","sqlite_error":"nope"}]}`,
		string(data))
}

func TestSnapshot_StoreRowsExcluded(t *testing.T) {
	snapshot := Snapshot{
		ScenarioName: "snap",
		Steps: []StepResult{
			{Name: "s", Rows: []any{"Bob"}, StoreRows: []any{"Kate"}, StoreRan: true},
		},
	}

	data, err := ir.MarshalCanonical(snapshot.toCanonicalMap())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Kate")
}
