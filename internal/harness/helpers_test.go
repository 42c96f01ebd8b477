package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const scenarioDir = "../../testdata/scenarios"

// writeWorkspace lays out a scenario directory with the shared pets schema
// and fixtures, writes scenario as scenario.yaml and returns its path.
func writeWorkspace(t *testing.T, scenario string) string {
	t.Helper()
	dir := t.TempDir()

	schema, err := os.ReadFile("../../testdata/schema/pets.cue")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "schema"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema", "pets.cue"), schema, 0644))

	fixtures, err := os.ReadFile("../../testdata/fixtures/pets.yaml")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fixtures"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixtures", "pets.yaml"), fixtures, 0644))

	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0644))
	return path
}

// loadWorkspace writes and loads a scenario that must be valid.
func loadWorkspace(t *testing.T, scenario string) *Scenario {
	t.Helper()
	s, err := LoadScenario(writeWorkspace(t, scenario))
	require.NoError(t, err)
	return s
}

const namesStep = `
  - name: names
    query:
      vars: {cat: Cat}
      select: {path: cat.name}
      from:
        - source: {path: cat}
      order_by:
        - expr: {path: cat.id}
    expect:
      rows: [Bob, Kate, Tom, Kitty]
`
