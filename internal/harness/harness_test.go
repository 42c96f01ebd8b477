package harness

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScenario(t *testing.T, content string, opts ...Option) *Result {
	t.Helper()
	result, err := Run(context.Background(), loadWorkspace(t, content), opts...)
	require.NoError(t, err)
	return result
}

func TestRun_Passing(t *testing.T) {
	result := runScenario(t, validScenario)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Steps, 1)

	step := result.Steps[0]
	assert.Equal(t, "names", step.Name)
	assert.Equal(t, "select cat.name from Cat cat order by cat.id asc", step.HQL)
	assert.Equal(t, "select cat.name from Cat cat order by cat.id asc", step.SQLite)
	assert.True(t, step.Ordered)
	assert.Equal(t, []any{"Bob", "Kate", "Tom", "Kitty"}, step.Rows)
	assert.True(t, step.StoreRan)
	assert.Equal(t, step.Rows, step.StoreRows)
}

func TestRun_RowMismatch(t *testing.T) {
	content := strings.Replace(validScenario, "rows: [Bob, Kate, Tom, Kitty]", "rows: [Bob, Kate, Kitty, Tom]", 1)
	result := runScenario(t, content)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "step names: row 2: expected Kitty, got Tom", result.Errors[0])
}

const divisionScenario = `
name: division
description: Integer division by a zero constant
schema: schema
fixtures: fixtures/pets.yaml
steps:
  - name: divide
    query:
      vars: {cat: Cat}
      select: {op: DIV, args: [{path: cat.weight}, {const: 0, type: int32}]}
      from:
        - source: {path: cat}
EXPECT
assertions:
  - type: serialized
    step: divide
    dialect: hql
    text: select cat.weight / 0 from Cat cat
`

func TestRun_ExpectedError(t *testing.T) {
	content := strings.Replace(divisionScenario, "EXPECT", "    expect:\n      error: Division By Zero", 1)
	result := runScenario(t, content)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Contains(t, result.Steps[0].Error, "division by zero")
	assert.Nil(t, result.Steps[0].Rows)
}

func TestRun_WrongExpectedError(t *testing.T) {
	content := strings.Replace(divisionScenario, "EXPECT", "    expect:\n      error: overflow", 1)
	result := runScenario(t, content)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `expected error containing "overflow"`)
}

func TestRun_UnexpectedError(t *testing.T) {
	content := strings.Replace(divisionScenario, "EXPECT", "", 1)
	result := runScenario(t, content)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "step divide: evaluation failed")
}

func TestRun_MissingExpectedError(t *testing.T) {
	content := strings.Replace(validScenario, "rows: [Bob, Kate, Tom, Kitty]", "error: boom", 1)
	result := runScenario(t, content)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `expected error containing "boom", got 4 rows`)
}

func TestRun_WithoutFixtures(t *testing.T) {
	content := strings.Replace(validScenario, "fixtures: fixtures/pets.yaml\n", "", 1)
	content = strings.Replace(content, "rows: [Bob, Kate, Tom, Kitty]", "rows: []", 1)
	content = strings.Replace(content, "type: row_count\n    step: names\n    count: 4", "type: cross_check\n    step: names", 1)
	result := runScenario(t, content)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "no fixtures loaded")
	assert.Empty(t, result.Steps[0].Rows)
	assert.False(t, result.Steps[0].StoreRan)
}

func TestRun_WithConvert(t *testing.T) {
	content := `
name: total
description: Sum of weights
schema: schema
fixtures: fixtures/pets.yaml
steps:
  - name: total
    query:
      vars: {cat: Cat}
      select: {op: SUM, args: [{path: cat.weight}]}
      from:
        - source: {path: cat}
    expect:
      rows: [12]
assertions:
  - type: cross_check
    step: total
`
	plain := runScenario(t, content)
	require.True(t, plain.Pass, "errors: %v", plain.Errors)
	assert.Equal(t, []any{int64(12)}, plain.Steps[0].Rows)

	converted := runScenario(t, content, WithConvert())
	require.True(t, converted.Pass, "errors: %v", converted.Errors)
	assert.Equal(t, []any{int32(12)}, converted.Steps[0].Rows)
	assert.Equal(t, []any{int32(12)}, converted.Steps[0].StoreRows)

	scenarioWide := runScenario(t, "convert: true\n"+content)
	assert.Equal(t, []any{int32(12)}, scenarioWide.Steps[0].Rows)
}

func TestRun_BadSchema(t *testing.T) {
	path := writeWorkspace(t, validScenario)
	bad := filepath.Join(filepath.Dir(path), "schema", "broken.cue")
	require.NoError(t, os.WriteFile(bad, []byte("package pets\n\nentity: Dog: {\n"), 0644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	_, err = Run(context.Background(), scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load schema")
}

func TestRun_BadFixtures(t *testing.T) {
	path := writeWorkspace(t, validScenario)
	fixtures := filepath.Join(filepath.Dir(path), "fixtures", "pets.yaml")
	require.NoError(t, os.WriteFile(fixtures, []byte("Cat:\n  - id: 1\n    color: black\n"), 0644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	_, err = Run(context.Background(), scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load fixtures")
}

func TestRun_UndecodableQuery(t *testing.T) {
	content := strings.Replace(validScenario, "select: {path: cat.name}", "select: {path: cat.color}", 1)
	scenario := loadWorkspace(t, content)

	_, err := Run(context.Background(), scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 0 (names)")
	assert.Contains(t, err.Error(), "failed to decode query")
}

func TestRun_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	result := runScenario(t, validScenario, WithLogger(logger))
	require.True(t, result.Pass)

	out := buf.String()
	assert.Contains(t, out, "step completed")
	assert.Contains(t, out, "scenario completed")
	assert.Contains(t, out, "scenario=names")
}

func TestResult_Step(t *testing.T) {
	result := NewResult()
	result.Steps = append(result.Steps, StepResult{Name: "a"}, StepResult{Name: "b"})

	sr, ok := result.Step("b")
	require.True(t, ok)
	assert.Equal(t, "b", sr.Name)

	_, ok = result.Step("c")
	assert.False(t, ok)

	result.AddError("boom")
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"boom"}, result.Errors)
}
