package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/querydoc"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string      // Assertion type for categorization
	Step     string      // Step the assertion applies to
	Expected string      // Human-readable expected outcome
	Actual   string      // Human-readable actual outcome
	Result   *StepResult // Step outcome for debugging context, may be nil
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s (step %s)\n", e.Type, e.Step)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if r := e.Result; r != nil {
		fmt.Fprintf(&buf, "\nStep outcome:\n")
		fmt.Fprintf(&buf, "  hql: %s\n", r.HQL)
		if r.SQLiteError != "" {
			fmt.Fprintf(&buf, "  sqlite: %s\n", r.SQLiteError)
		} else {
			fmt.Fprintf(&buf, "  sqlite: %s\n", r.SQLite)
		}
		if r.Error != "" {
			fmt.Fprintf(&buf, "  eval error: %s\n", r.Error)
		} else {
			fmt.Fprintf(&buf, "  rows: %v\n", r.Rows)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against the step results and
// returns one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		sr, ok := result.Step(a.Step)
		if !ok {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): unknown step %q", i, a.Type, a.Step))
			continue
		}
		var err error
		switch a.Type {
		case AssertSerialized:
			err = assertSerialized(sr, a)
		case AssertRowCount:
			err = assertRowCount(sr, a)
		case AssertRowsContain:
			err = assertRowsContain(sr, a)
		case AssertCrossCheck:
			err = assertCrossCheck(sr, a)
		case AssertUnsupported:
			err = assertUnsupported(sr, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

// assertSerialized checks the exact rendered text of a dialect.
func assertSerialized(sr *StepResult, a Assertion) error {
	var text string
	switch a.Dialect {
	case "hql":
		text = sr.HQL
	case "sqlite":
		if sr.SQLiteError != "" {
			return &AssertionError{Type: a.Type, Step: a.Step, Expected: a.Text, Actual: sr.SQLiteError, Result: sr}
		}
		text = sr.SQLite
	default:
		return fmt.Errorf("unknown dialect %q", a.Dialect)
	}
	if text != a.Text {
		return &AssertionError{Type: a.Type, Step: a.Step, Expected: a.Text, Actual: text, Result: sr}
	}
	return nil
}

// assertRowCount checks the number of evaluation rows.
func assertRowCount(sr *StepResult, a Assertion) error {
	if sr.Error != "" {
		return &AssertionError{Type: a.Type, Step: a.Step,
			Expected: fmt.Sprintf("%d rows", a.Count), Actual: "error: " + sr.Error, Result: sr}
	}
	if len(sr.Rows) != a.Count {
		return &AssertionError{Type: a.Type, Step: a.Step,
			Expected: fmt.Sprintf("%d rows", a.Count), Actual: fmt.Sprintf("%d rows", len(sr.Rows)), Result: sr}
	}
	return nil
}

// assertRowsContain checks that every listed row is in the result.
func assertRowsContain(sr *StepResult, a Assertion) error {
	for _, want := range a.Rows {
		found := false
		for _, got := range sr.Rows {
			if matchRow(want, got) {
				found = true
				break
			}
		}
		if !found {
			return &AssertionError{Type: a.Type, Step: a.Step,
				Expected: fmt.Sprintf("row %v", want), Actual: "not found in result", Result: sr}
		}
	}
	return nil
}

// assertCrossCheck checks that SQLite returned the evaluation rows.
func assertCrossCheck(sr *StepResult, a Assertion) error {
	fail := func(actual string) error {
		return &AssertionError{Type: a.Type, Step: a.Step,
			Expected: "sqlite rows equal to evaluation rows", Actual: actual, Result: sr}
	}
	switch {
	case !sr.StoreRan && sr.SQLiteError != "":
		return fail("sqlite cannot render the query: " + sr.SQLiteError)
	case !sr.StoreRan:
		return fail("no fixtures loaded")
	case sr.StoreError != "":
		return fail("sqlite error: " + sr.StoreError)
	case sr.Error != "":
		return fail("evaluation error: " + sr.Error)
	}
	if !sameRows(sr.Rows, sr.StoreRows, sr.Ordered) {
		return fail(fmt.Sprintf("evaluation %v, sqlite %v", sr.Rows, sr.StoreRows))
	}
	return nil
}

// assertUnsupported checks that a dialect rejected the step.
func assertUnsupported(sr *StepResult, a Assertion) error {
	if a.Dialect == "sqlite" && sr.SQLiteError != "" {
		return nil
	}
	text := sr.HQL
	if a.Dialect == "sqlite" {
		text = sr.SQLite
	}
	return &AssertionError{Type: a.Type, Step: a.Step,
		Expected: a.Dialect + " cannot render the query", Actual: text, Result: sr}
}

// compareRows compares expected rows written in a scenario with actual
// rows. It returns an empty string on a match.
func compareRows(want, got []any, ordered bool) string {
	if len(want) != len(got) {
		return fmt.Sprintf("expected %d rows %v, got %d rows %v", len(want), want, len(got), got)
	}
	if ordered {
		for i := range want {
			if !matchRow(want[i], got[i]) {
				return fmt.Sprintf("row %d: expected %v, got %v", i, want[i], got[i])
			}
		}
		return ""
	}
	used := make([]bool, len(got))
	for _, w := range want {
		found := false
		for j, g := range got {
			if !used[j] && matchRow(w, g) {
				used[j], found = true, true
				break
			}
		}
		if !found {
			return fmt.Sprintf("expected row %v not in %v", w, got)
		}
	}
	return ""
}

// matchRow compares one scenario row with one result row.
func matchRow(want, got any) bool {
	wr, wok := want.([]any)
	gr, gok := got.([]any)
	if !wok || !gok {
		return !gok && matchValue(want, got)
	}
	if len(wr) != len(gr) {
		return false
	}
	for i := range wr {
		if !matchValue(wr[i], gr[i]) {
			return false
		}
	}
	return true
}

// matchValue compares a YAML scalar with a runtime value by coercing the
// scalar to the runtime value's type first.
func matchValue(want, got any) bool {
	if want == nil || got == nil {
		return want == nil && got == nil
	}
	if ir.Equal(want, got) {
		return true
	}
	coerced, err := querydoc.Coerce(want, ir.TypeOfValue(got))
	return err == nil && ir.Equal(coerced, got)
}

// sameRows compares two result row lists, in order or as multisets.
func sameRows(a, b []any, ordered bool) bool {
	if len(a) != len(b) {
		return false
	}
	key := func(row any) any {
		if r, ok := row.([]any); ok {
			return ir.CompositeKey(r)
		}
		return ir.Key(row)
	}
	if ordered {
		for i := range a {
			if key(a[i]) != key(b[i]) {
				return false
			}
		}
		return true
	}
	counts := make(map[any]int, len(a))
	for _, row := range a {
		counts[key(row)]++
	}
	for _, row := range b {
		k := key(row)
		if counts[k] == 0 {
			return false
		}
		counts[k]--
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
