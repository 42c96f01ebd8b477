package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/querydoc"
)

// Snapshot captures the backend-visible outcome of a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type Snapshot struct {
	ScenarioName string
	Steps        []StepResult
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON
// serialization. Store rows are left out: cross_check assertions compare
// them with the evaluation rows.
func (s *Snapshot) toCanonicalMap() map[string]any {
	steps := make([]any, len(s.Steps))
	for i, sr := range s.Steps {
		step := map[string]any{
			"name": sr.Name,
			"hql":  sr.HQL,
		}
		if sr.SQLiteError != "" {
			step["sqlite_error"] = sr.SQLiteError
		} else {
			step["sqlite"] = sr.SQLite
		}
		if sr.Error != "" {
			step["error"] = sr.Error
		} else {
			step["rows"] = querydoc.Export(sr.Rows)
		}
		steps[i] = step
	}
	return map[string]any{
		"scenario": s.ScenarioName,
		"steps":    steps,
	}
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's snapshot against a golden file.
// This is useful when a scenario has already been run.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}

// MarshalSnapshot renders the snapshot of result as canonical JSON, the
// golden file format.
func MarshalSnapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := Snapshot{ScenarioName: scenarioName, Steps: result.Steps}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}
