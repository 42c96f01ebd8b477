package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands. PersistentPreRunE
// overwrites them with the merged configuration before a command runs.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Dialect    string // "hql" | "sqlite"
	SchemaDir  string
	Convert    bool
	ConfigFile string

	// Config is the merged configuration, set before a command runs.
	Config *Config

	// Logger writes diagnostics to stderr; Debug level with --verbose.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ValidDialects defines the allowed serialization dialects.
var ValidDialects = []string{"hql", "sqlite"}

// NewRootCommand creates the root command for the pathql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pathql",
		Short: "pathql - typed query expressions",
		Long: `Build, serialize and evaluate typed path query expressions.

Queries are YAML documents resolved against CUE entity schemas. They can be
rendered as HQL or SQLite text, evaluated over in-memory fixtures, and
cross-checked against SQLite in scenario files.

Settings are read from pathql.yaml, PATHQL_* environment variables and flags,
in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd); err != nil {
				// Commands have not started, so nothing has reported it yet.
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return err
			}
			return nil
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", DefaultFormat, "output format (json|text)")
	flags.StringVar(&opts.Dialect, "dialect", DefaultDialect, "serialization dialect (hql|sqlite)")
	flags.StringVar(&opts.SchemaDir, "schema-dir", DefaultSchemaDir, "directory of CUE entity schemas")
	flags.BoolVar(&opts.Convert, "convert", false, "apply the numeric conversion layer to queries")
	flags.StringVar(&opts.ConfigFile, "config", "", "config file (default pathql.yaml)")

	cmd.AddCommand(NewSerializeCommand(opts))
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))

	return cmd
}

// load merges configuration layers into opts and validates the result.
func (opts *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := LoadConfig(opts.ConfigFile, cmd.Flags())
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if !slices.Contains(ValidFormats, cfg.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", cfg.Format, ValidFormats))
	}
	if !slices.Contains(ValidDialects, cfg.Dialect) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid dialect %q: must be one of %v", cfg.Dialect, ValidDialects))
	}

	opts.Config = cfg
	opts.Verbose = cfg.Verbose
	opts.Format = cfg.Format
	opts.Dialect = cfg.Dialect
	opts.SchemaDir = cfg.SchemaDir
	opts.Convert = cfg.Convert
	opts.Logger = newLogger(cmd.ErrOrStderr(), cfg.Verbose)

	opts.Logger.Debug("configuration loaded",
		"file", cfg.File,
		"dialect", cfg.Dialect,
		"schema_dir", cfg.SchemaDir,
		"convert", cfg.Convert,
	)
	return nil
}

// newLogger returns a text logger on w: Debug level when verbose, Warn
// otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// logger returns opts.Logger, or a discarding logger when a command runs
// without the root command.
func (opts *RootOptions) logger() *slog.Logger {
	if opts.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return opts.Logger
}
