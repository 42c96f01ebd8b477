package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755))

	paths, err := FindScenarios(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yml"), filepath.Join(dir, "b.yaml")}, paths)
}

func TestFindScenarios_MissingDir(t *testing.T) {
	_, err := FindScenarios(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario directory")
}

func TestRunDir_RepositoryScenarios(t *testing.T) {
	result, err := RunDir(context.Background(), scenarioDir)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalScenarios)
	assert.Equal(t, 3, result.Passed)
	assert.Zero(t, result.Failed)
	for _, f := range result.Failures {
		t.Errorf("%s (%s): %v", f.ScenarioPath, f.Scenario, f.Errors)
	}
}

func TestRunDir_WithConvert(t *testing.T) {
	result, err := RunDir(context.Background(), scenarioDir, WithConvert())
	require.NoError(t, err)
	assert.Equal(t, result.TotalScenarios, result.Passed, "failures: %v", result.Failures)
}

func TestRunDir_CountsFailures(t *testing.T) {
	path := writeWorkspace(t, validScenario)
	dir := filepath.Dir(path)

	failing := filepath.Join(dir, "failing.yaml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(failing, []byte(string(data)+"  - type: row_count\n    step: names\n    count: 9\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [\n"), 0644))

	result, err := RunDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalScenarios)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Failures, 2)

	byPath := map[string]ScenarioFailure{}
	for _, f := range result.Failures {
		byPath[filepath.Base(f.ScenarioPath)] = f
	}
	assert.Contains(t, byPath["broken.yaml"].Errors[0], "failed to load scenario")
	assert.Equal(t, "names", byPath["failing.yaml"].Scenario)
	assert.Contains(t, byPath["failing.yaml"].Errors[0], "Actual: 4 rows")
}
