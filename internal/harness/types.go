package harness

// StepResult is the outcome of one query step on every backend.
type StepResult struct {
	Name string `json:"name"`

	// HQL is the query rendered with the HQL dialect, constants inlined.
	HQL string `json:"hql"`

	// SQLite is the query rendered with the SQLite dialect, or empty when
	// the dialect cannot render it; SQLiteError then holds the reason.
	SQLite      string `json:"sqlite,omitempty"`
	SQLiteError string `json:"sqlite_error,omitempty"`

	// Ordered is true when the query has an order by clause, so row order
	// is significant.
	Ordered bool `json:"ordered"`

	// Rows are the in-memory evaluation rows; Error is set instead when
	// evaluation failed.
	Rows  []any  `json:"rows,omitempty"`
	Error string `json:"error,omitempty"`

	// StoreRows are the rows SQLite returned. StoreRan is false when the
	// query was not executed (no fixtures, or no SQLite rendering).
	StoreRows  []any  `json:"store_rows,omitempty"`
	StoreError string `json:"store_error,omitempty"`
	StoreRan   bool   `json:"store_ran"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses and assertions hold.
	Pass bool `json:"pass"`

	// Steps holds one entry per scenario step, in order.
	Steps []StepResult `json:"steps"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Step returns the result of the named step.
func (r *Result) Step(name string) (*StepResult, bool) {
	for i := range r.Steps {
		if r.Steps[i].Name == name {
			return &r.Steps[i], true
		}
	}
	return nil, false
}
