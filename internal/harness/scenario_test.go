package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validScenario = `
name: names
description: Every cat by id
schema: schema
fixtures: fixtures/pets.yaml
steps:` + namesStep + `
assertions:
  - type: row_count
    step: names
    count: 4
`

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeWorkspace(t, validScenario)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, "names", scenario.Name)
	assert.Equal(t, "Every cat by id", scenario.Description)
	assert.Equal(t, filepath.Join(dir, "schema"), scenario.Schema)
	assert.Equal(t, filepath.Join(dir, "fixtures", "pets.yaml"), scenario.Fixtures)
	require.Len(t, scenario.Steps, 1)
	assert.Equal(t, "names", scenario.Steps[0].Name)
	assert.Equal(t, map[string]string{"cat": "Cat"}, scenario.Steps[0].Query.Vars)
	require.NotNil(t, scenario.Steps[0].Expect)
	assert.Len(t, scenario.Steps[0].Expect.Rows, 4)
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, AssertRowCount, scenario.Assertions[0].Type)
	assert.Equal(t, 4, scenario.Assertions[0].Count)
}

func TestLoadScenario_RepositoryScenarios(t *testing.T) {
	paths, err := FindScenarios(scenarioDir)
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := LoadScenario(path)
			assert.NoError(t, err)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeWorkspace(t, validScenario+"flow: []\n")

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "flow")
}

func TestLoadScenario_UnknownQueryField(t *testing.T) {
	path := writeWorkspace(t, strings.Replace(validScenario, "order_by:", "sort_by:", 1))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sort_by")
}

func TestLoadScenarioWithBasePath(t *testing.T) {
	path := writeWorkspace(t, validScenario)
	base := filepath.Dir(path)

	// Load from another directory with an explicit base.
	other := filepath.Join(t.TempDir(), "moved.yaml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(other, data, 0644))

	_, err = LoadScenario(other)
	require.Error(t, err, "relative paths resolve against the file's directory")
	assert.Contains(t, err.Error(), "schema directory not found")

	scenario, err := LoadScenarioWithBasePath(other, base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "schema"), scenario.Schema)
}

func TestLoadScenario_AbsolutePathsKept(t *testing.T) {
	schema, err := filepath.Abs("../../testdata/schema")
	require.NoError(t, err)
	content := strings.Replace(validScenario, "schema: schema", "schema: "+schema, 1)

	scenario := loadWorkspace(t, content)
	assert.Equal(t, schema, scenario.Schema)
}

func TestLoadScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(string) string
		wantErr string
	}{
		{
			name: "missing name",
			edit: func(s string) string {
				return strings.Replace(s, "name: names\n", "", 1)
			},
			wantErr: "name is required",
		},
		{
			name: "missing description",
			edit: func(s string) string {
				return strings.Replace(s, "description: Every cat by id\n", "", 1)
			},
			wantErr: "description is required",
		},
		{
			name: "missing schema",
			edit: func(s string) string {
				return strings.Replace(s, "schema: schema\n", "", 1)
			},
			wantErr: "schema directory is required",
		},
		{
			name: "schema not found",
			edit: func(s string) string {
				return strings.Replace(s, "schema: schema", "schema: nowhere", 1)
			},
			wantErr: "schema directory not found",
		},
		{
			name: "fixtures not found",
			edit: func(s string) string {
				return strings.Replace(s, "fixtures: fixtures/pets.yaml", "fixtures: fixtures/dogs.yaml", 1)
			},
			wantErr: "fixture file not found",
		},
		{
			name: "no steps",
			edit: func(s string) string {
				return s[:strings.Index(s, "steps:")] + "steps: []\nassertions: [{type: row_count, step: names}]\n"
			},
			wantErr: "steps list is required and must be non-empty",
		},
		{
			name: "no assertions",
			edit: func(s string) string {
				return s[:strings.Index(s, "assertions:")] + "assertions: []\n"
			},
			wantErr: "assertions list is required and must be non-empty",
		},
		{
			name: "duplicate step",
			edit: func(s string) string {
				return strings.Replace(s, "\nassertions:", namesStep+"\nassertions:", 1)
			},
			wantErr: `duplicate step name "names"`,
		},
		{
			name: "rows and error",
			edit: func(s string) string {
				return strings.Replace(s, "      rows: [Bob, Kate, Tom, Kitty]\n", "      rows: [Bob]\n      error: boom\n", 1)
			},
			wantErr: "rows and error are mutually exclusive",
		},
		{
			name: "assertion without step",
			edit: func(s string) string {
				return strings.Replace(s, "    step: names\n    count: 4", "    count: 4", 1)
			},
			wantErr: "step is required",
		},
		{
			name: "assertion on unknown step",
			edit: func(s string) string {
				return strings.Replace(s, "    step: names\n    count: 4", "    step: ages\n    count: 4", 1)
			},
			wantErr: `unknown step "ages"`,
		},
		{
			name: "unknown assertion type",
			edit: func(s string) string {
				return strings.Replace(s, "type: row_count", "type: trace_contains", 1)
			},
			wantErr: `unknown assertion type "trace_contains"`,
		},
		{
			name: "serialized without dialect",
			edit: func(s string) string {
				return strings.Replace(s, "type: row_count", "type: serialized", 1)
			},
			wantErr: "dialect is required for serialized",
		},
		{
			name: "unknown dialect",
			edit: func(s string) string {
				return strings.Replace(s, "type: row_count", "type: unsupported\n    dialect: jpql", 1)
			},
			wantErr: `unknown dialect "jpql"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeWorkspace(t, tt.edit(validScenario))

			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
