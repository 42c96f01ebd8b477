package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pathql/internal/engine"
	"github.com/roach88/pathql/internal/querydoc"
	"github.com/roach88/pathql/internal/queryir"
	"github.com/roach88/pathql/internal/schema"
	"github.com/roach88/pathql/internal/store"
)

// Evaluation backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Data    string // fixture file
	Backend string // "memory" | "sqlite"
	MaxRows int    // join bound for the memory backend
}

// EvalResult is the output of the eval command.
type EvalResult struct {
	Backend string `json:"backend"`
	Rows    []any  `json:"rows"`
	Count   int    `json:"count"`

	rows Rows
}

// Text implements Texter.
func (r EvalResult) Text(w io.Writer) { r.rows.Text(w) }

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <query.yaml> --data <fixtures.yaml>",
		Short: "Evaluate a query over fixture data",
		Long: `Evaluate a query document over the collections of a fixture file.

The memory backend evaluates the expression tree directly. The sqlite backend
loads the fixtures into an in-memory SQLite database and runs the SQLite
rendering of the query there.

Exit codes:
  0 - Query evaluated
  1 - Query invalid or evaluation failed
  2 - Command error (missing files, bad schema, bad fixtures)

Examples:
  pathql eval queries/alive.yaml --data fixtures/pets.yaml
  pathql eval queries/alive.yaml --data fixtures/pets.yaml --backend sqlite`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Data, "data", "", "fixture file (required)")
	cmd.Flags().StringVar(&opts.Backend, "backend", BackendMemory, "evaluation backend (memory|sqlite)")
	cmd.Flags().IntVar(&opts.MaxRows, "max-rows", engine.DefaultMaxRows, "bound on joined rows for the memory backend (0 disables)")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func runEval(opts *EvalOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if opts.Backend != BackendMemory && opts.Backend != BackendSQLite {
		return f.Fail(ExitCommandError, ErrCodeConfig, fmt.Sprintf("invalid backend %q: must be memory or sqlite", opts.Backend), nil)
	}
	if err := checkFile(f, "query file", path); err != nil {
		return err
	}
	if err := checkFile(f, "fixture file", opts.Data); err != nil {
		return err
	}

	reg, err := loadRegistry(f, opts.SchemaDir)
	if err != nil {
		return err
	}
	q, err := loadQuery(f, opts.RootOptions, reg, path)
	if err != nil {
		return err
	}
	fx, err := querydoc.LoadFixtures(opts.Data, reg)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeFixtures, "failed to load fixtures", err)
	}
	f.VerboseLog("Loaded fixtures for %v", fx.Entities())

	var rows []any
	switch opts.Backend {
	case BackendSQLite:
		rows, err = evalSQLite(cmd.Context(), opts, reg, fx, q)
	default:
		x := engine.NewExecutor(engine.WithLogger(opts.logger()), engine.WithMaxRows(opts.MaxRows))
		rows, err = x.Run(q, engine.Sources(fx))
	}
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeEval, "evaluation failed", err)
	}

	return f.Success(EvalResult{
		Backend: opts.Backend,
		Rows:    Rows(rows).export(),
		Count:   len(rows),
		rows:    rows,
	})
}

func evalSQLite(ctx context.Context, opts *EvalOptions, reg *schema.Registry, fx querydoc.Fixtures, q *queryir.Query) ([]any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(":memory:", store.WithLogger(opts.logger()))
	if err != nil {
		return nil, err
	}
	defer st.Close()

	if err := st.Load(ctx, reg, fx); err != nil {
		return nil, err
	}
	return st.Run(ctx, q)
}
