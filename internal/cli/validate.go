package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pathql/internal/querydoc"
	"github.com/roach88/pathql/internal/queryir"
	"github.com/roach88/pathql/internal/querysql"
)

// ValidationResult holds the outcome of the validate command.
type ValidationResult struct {
	Valid       bool              `json:"valid"`
	Errors      []string          `json:"errors,omitempty"`
	Fingerprint string            `json:"fingerprint,omitempty"`
	Type        string            `json:"type,omitempty"`
	Aggregate   bool              `json:"aggregate,omitempty"`
	Dialects    map[string]string `json:"dialects,omitempty"` // dialect -> "ok" or reason
}

// Text implements Texter.
func (r ValidationResult) Text(w io.Writer) {
	if !r.Valid {
		fmt.Fprintln(w, "✗ Query is invalid")
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		return
	}
	fmt.Fprintln(w, "✓ Query is valid")
	fmt.Fprintf(w, "  type: %s\n", r.Type)
	if r.Aggregate {
		fmt.Fprintln(w, "  aggregate: true")
	}
	fmt.Fprintf(w, "  fingerprint: %s\n", r.Fingerprint)
	for _, d := range ValidDialects {
		fmt.Fprintf(w, "  %s: %s\n", d, r.Dialects[d])
	}
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <query.yaml>",
		Short: "Check a query document without running it",
		Long: `Decode and validate a query document against the schema.

Reports the result type, the query fingerprint and whether each dialect can
render the query. Faster than eval for development feedback: no fixtures are
read.

Exit codes:
  0 - Query is valid
  1 - Query is invalid
  2 - Command error (missing files, bad schema)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if err := checkFile(f, "query file", path); err != nil {
		return err
	}
	reg, err := loadRegistry(f, opts.SchemaDir)
	if err != nil {
		return err
	}

	doc, err := querydoc.LoadFile(path)
	if err == nil {
		var q *queryir.Query
		if q, err = querydoc.NewDecoder(reg).Query(doc); err == nil {
			return outputValid(f, q)
		}
	}

	if outErr := f.Success(ValidationResult{Valid: false, Errors: []string{err.Error()}}); outErr != nil {
		return outErr
	}
	return WrapExitError(ExitFailure, "query is invalid", err)
}

func outputValid(f *OutputFormatter, q *queryir.Query) error {
	fp, err := queryir.QueryFingerprint(q)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeQuery, "failed to fingerprint query", err)
	}

	result := ValidationResult{
		Valid:       true,
		Fingerprint: fp,
		Type:        q.Select.Type().String(),
		Aggregate:   q.IsAggregate(),
		Dialects:    map[string]string{},
	}
	for _, name := range ValidDialects {
		templates, _ := dialect(name)
		if _, _, err := querysql.NewSerializer(templates).SerializeQuery(q); err != nil {
			result.Dialects[name] = err.Error()
			continue
		}
		result.Dialects[name] = "ok"
	}
	return f.Success(result)
}
