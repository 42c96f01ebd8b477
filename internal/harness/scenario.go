package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pathql/internal/querydoc"
)

// Scenario defines a conformance test scenario.
// Scenarios run a list of queries against one schema and fixture set and
// assert on the serialized text and the result rows.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is the directory of CUE entity files the queries resolve
	// against.
	Schema string `yaml:"schema"`

	// Fixtures is an optional YAML fixture file (see querydoc.ParseFixtures).
	// Without fixtures every query evaluates over empty collections and no
	// SQLite database is created.
	Fixtures string `yaml:"fixtures,omitempty"`

	// Convert applies the conversion layer to every query before running it.
	Convert bool `yaml:"convert,omitempty"`

	// Steps are the queries to run, in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the step results.
	// Supported types: serialized, row_count, rows_contain, cross_check,
	// unsupported
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one query of a scenario.
type Step struct {
	// Name identifies the step in assertions and snapshots.
	Name string `yaml:"name"`

	// Query is the query document.
	Query querydoc.File `yaml:"query"`

	// Convert applies the conversion layer to this step only.
	Convert bool `yaml:"convert,omitempty"`

	// Expect specifies the expected evaluation outcome.
	// If nil, the step only has to evaluate without error.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected in-memory evaluation outcome.
type ExpectClause struct {
	// Rows are the exact expected rows. A multi-column row is a list.
	// Order matters only when the query has an order by clause.
	Rows []any `yaml:"rows,omitempty"`

	// Error is a substring of the expected evaluation error.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates one step result.
type Assertion struct {
	// Type specifies the assertion type:
	// - "serialized": the step renders to Text in Dialect
	// - "row_count": evaluation yields exactly Count rows
	// - "rows_contain": every row of Rows appears in the result
	// - "cross_check": SQLite rows equal evaluation rows
	// - "unsupported": Dialect cannot render the step
	Type string `yaml:"type"`

	// Step names the step the assertion applies to.
	Step string `yaml:"step"`

	// Dialect is "hql" or "sqlite" (used by serialized and unsupported).
	Dialect string `yaml:"dialect,omitempty"`

	// Text is the expected serialized query (used by serialized).
	Text string `yaml:"text,omitempty"`

	// Count is the expected number of rows (used by row_count).
	Count int `yaml:"count,omitempty"`

	// Rows are rows that must be present (used by rows_contain).
	Rows []any `yaml:"rows,omitempty"`
}

// Assertion type constants.
const (
	AssertSerialized  = "serialized"
	AssertRowCount    = "row_count"
	AssertRowsContain = "rows_contain"
	AssertCrossCheck  = "cross_check"
	AssertUnsupported = "unsupported"
)

// LoadScenario reads and parses a scenario YAML file. Relative schema and
// fixture paths resolve against the directory of the file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving schema and fixture paths relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve paths BEFORE validation so existence checks see real files.
	scenario.Schema = resolve(basePath, scenario.Schema)
	scenario.Fixtures = resolve(basePath, scenario.Fixtures)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(base, path)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Schema == "" {
		return fmt.Errorf("schema directory is required")
	}
	if _, err := os.Stat(s.Schema); os.IsNotExist(err) {
		return fmt.Errorf("schema directory not found: %s", s.Schema)
	}
	if s.Fixtures != "" {
		if _, err := os.Stat(s.Fixtures); os.IsNotExist(err) {
			return fmt.Errorf("fixture file not found: %s", s.Fixtures)
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	steps := make(map[string]bool, len(s.Steps))
	for i, step := range s.Steps {
		if step.Name == "" {
			return fmt.Errorf("steps[%d]: name is required", i)
		}
		if steps[step.Name] {
			return fmt.Errorf("steps[%d]: duplicate step name %q", i, step.Name)
		}
		steps[step.Name] = true
		if step.Query.Select == nil {
			return fmt.Errorf("steps[%d]: query.select is required", i)
		}
		if len(step.Query.From) == 0 {
			return fmt.Errorf("steps[%d]: query.from is required and must be non-empty", i)
		}
		if step.Expect != nil && step.Expect.Rows != nil && step.Expect.Error != "" {
			return fmt.Errorf("steps[%d].expect: rows and error are mutually exclusive", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, steps); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, steps map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Step == "" {
		return fmt.Errorf("assertions[%d]: step is required", index)
	}
	if !steps[a.Step] {
		return fmt.Errorf("assertions[%d]: unknown step %q", index, a.Step)
	}

	switch a.Type {
	case AssertSerialized:
		if err := validateDialect(index, a); err != nil {
			return err
		}
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for serialized", index)
		}
	case AssertUnsupported:
		if err := validateDialect(index, a); err != nil {
			return err
		}
	case AssertRowCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for row_count", index)
		}
	case AssertRowsContain:
		if len(a.Rows) == 0 {
			return fmt.Errorf("assertions[%d]: rows list is required for rows_contain", index)
		}
	case AssertCrossCheck:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

func validateDialect(index int, a *Assertion) error {
	switch a.Dialect {
	case "hql", "sqlite":
		return nil
	case "":
		return fmt.Errorf("assertions[%d]: dialect is required for %s", index, a.Type)
	}
	return fmt.Errorf("assertions[%d]: unknown dialect %q", index, a.Dialect)
}
