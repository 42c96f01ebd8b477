package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pathql/internal/querydoc"
	"github.com/roach88/pathql/internal/querysql"
)

// SerializeOptions holds flags for the serialize command.
type SerializeOptions struct {
	*RootOptions
	Params bool // render constants as placeholders
}

// SerializeResult is the output of the serialize command.
type SerializeResult struct {
	Dialect string `json:"dialect"`
	Query   string `json:"query"`
	Params  []any  `json:"params,omitempty"`
}

// Text implements Texter.
func (r SerializeResult) Text(w io.Writer) {
	fmt.Fprintln(w, r.Query)
	for i, p := range r.Params {
		fmt.Fprintf(w, "  $%d = %s\n", i+1, formatValue(p))
	}
}

// NewSerializeCommand creates the serialize command.
func NewSerializeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SerializeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serialize <query.yaml>",
		Short: "Render a query document as query text",
		Long: `Render a query document in the configured dialect.

Constants are inlined as dialect literals unless --params is given, in which
case they become placeholders listed after the query.

Exit codes:
  0 - Query rendered
  1 - Query invalid or not expressible in the dialect
  2 - Command error (missing files, bad schema)

Examples:
  pathql serialize queries/alive.yaml
  pathql serialize queries/alive.yaml --dialect sqlite --params
  pathql serialize queries/alive.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSerialize(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Params, "params", false, "render constants as parameters")

	return cmd
}

func runSerialize(opts *SerializeOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if err := checkFile(f, "query file", path); err != nil {
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
	templates, err := dialect(opts.Dialect)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, "invalid dialect", err)
	}

	s := querysql.NewSerializer(templates)
	if opts.Params {
		s = s.WithMode(querysql.ModeParams)
	}
	text, params, err := s.SerializeQuery(q)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeSerialize, fmt.Sprintf("cannot render query in %s", templates.Name), err)
	}
	opts.logger().Debug("query serialized", "dialect", templates.Name, "params", len(params))

	exported := make([]any, len(params))
	for i, p := range params {
		exported[i] = querydoc.Export(p)
	}
	if len(exported) == 0 {
		exported = nil
	}
	return f.Success(SerializeResult{Dialect: templates.Name, Query: text, Params: exported})
}
