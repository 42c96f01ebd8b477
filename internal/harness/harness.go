package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/pathql/internal/compiler"
	"github.com/roach88/pathql/internal/convert"
	"github.com/roach88/pathql/internal/engine"
	"github.com/roach88/pathql/internal/querydoc"
	"github.com/roach88/pathql/internal/querysql"
	"github.com/roach88/pathql/internal/schema"
	"github.com/roach88/pathql/internal/store"
)

// Harness is the test execution engine for one scenario.
type Harness struct {
	registry *schema.Registry
	sources  engine.Sources
	store    *store.Store // nil without fixtures
	executor *engine.Executor
	convert  bool
	logger   *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger. Default discards.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithConvert applies the conversion layer to every step, whatever the
// scenario says.
func WithConvert() Option {
	return func(h *Harness) { h.convert = true }
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Compile the CUE schema directory into a registry
// 2. Load fixtures into memory and into SQLite
// 3. Run every step through HQL, SQLite and in-memory evaluation
// 4. Check expect clauses and assertions
//
// The returned error reports a broken scenario (bad schema, undecodable
// query); failed expectations are recorded in the Result instead.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{convert: scenario.Convert}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.New(slog.DiscardHandler)
	}
	h.executor = engine.NewExecutor(engine.WithLogger(h.logger))

	loaded, err := compiler.LoadDir(scenario.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	if h.registry, err = loaded.Registry(); err != nil {
		return nil, fmt.Errorf("failed to register schema: %w", err)
	}

	if scenario.Fixtures != "" {
		fx, err := querydoc.LoadFixtures(scenario.Fixtures, h.registry)
		if err != nil {
			return nil, fmt.Errorf("failed to load fixtures: %w", err)
		}
		h.sources = engine.Sources(fx)

		st, err := store.Open(":memory:", store.WithLogger(h.logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer st.Close()
		if err := st.Load(ctx, h.registry, fx); err != nil {
			return nil, fmt.Errorf("failed to load fixtures into store: %w", err)
		}
		h.store = st
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, step, result); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Name, err)
		}
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	h.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"steps", len(result.Steps),
		"pass", result.Pass,
	)
	return result, nil
}

// executeStep decodes the step's query, runs it on every backend and checks
// the expect clause.
func (h *Harness) executeStep(ctx context.Context, step Step, result *Result) error {
	q, err := querydoc.NewDecoder(h.registry).Query(&step.Query)
	if err != nil {
		return fmt.Errorf("failed to decode query: %w", err)
	}
	if h.convert || step.Convert {
		q = convert.ConvertQuery(q)
	}

	sr := StepResult{Name: step.Name, Ordered: len(q.OrderBy) > 0}

	// HQL renders every operator; a failure here is a broken query.
	if sr.HQL, _, err = querysql.NewSerializer(querysql.HQL).SerializeQuery(q); err != nil {
		return fmt.Errorf("failed to serialize as hql: %w", err)
	}
	if sr.SQLite, _, err = querysql.NewSerializer(querysql.SQLite).SerializeQuery(q); err != nil {
		sr.SQLiteError = err.Error()
	}

	rows, err := h.executor.Run(q, h.sources)
	if err != nil {
		sr.Error = err.Error()
	} else {
		sr.Rows = rows
	}

	if h.store != nil && sr.SQLiteError == "" {
		sr.StoreRan = true
		storeRows, err := h.store.Run(ctx, q)
		if err != nil {
			sr.StoreError = err.Error()
		} else {
			sr.StoreRows = storeRows
		}
	}

	checkExpect(step, &sr, result)
	result.Steps = append(result.Steps, sr)

	h.logger.Debug("step completed",
		"step", step.Name,
		"rows", len(sr.Rows),
		"eval_error", sr.Error,
		"sqlite", sr.SQLiteError == "",
	)
	return nil
}

// checkExpect validates the evaluation outcome against the step's expect
// clause. A step without one only has to evaluate without error.
func checkExpect(step Step, sr *StepResult, result *Result) {
	exp := step.Expect
	switch {
	case exp != nil && exp.Error != "":
		if sr.Error == "" {
			result.AddError(fmt.Sprintf("step %s: expected error containing %q, got %d rows", step.Name, exp.Error, len(sr.Rows)))
		} else if !containsFold(sr.Error, exp.Error) {
			result.AddError(fmt.Sprintf("step %s: expected error containing %q, got %q", step.Name, exp.Error, sr.Error))
		}
	case sr.Error != "":
		result.AddError(fmt.Sprintf("step %s: evaluation failed: %s", step.Name, sr.Error))
	case exp != nil && exp.Rows != nil:
		if msg := compareRows(exp.Rows, sr.Rows, sr.Ordered); msg != "" {
			result.AddError(fmt.Sprintf("step %s: %s", step.Name, msg))
		}
	}
}
