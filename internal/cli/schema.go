package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// PropertyInfo describes one entity property.
type PropertyInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Kind string `json:"kind"`
}

// EntityInfo describes one entity.
type EntityInfo struct {
	Name       string         `json:"name"`
	Properties []PropertyInfo `json:"properties"`
}

// SchemaResult is the output of the schema command.
type SchemaResult struct {
	Dir      string       `json:"dir"`
	Entities []EntityInfo `json:"entities"`
}

// Text implements Texter.
func (r SchemaResult) Text(w io.Writer) {
	for i, e := range r.Entities {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, e.Name)
		for _, p := range e.Properties {
			fmt.Fprintf(w, "  %-12s %s\n", p.Name, p.Type)
		}
	}
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema [dir]",
		Short: "Compile and list entity schemas",
		Long: `Compile the CUE entity schemas of a directory and list each entity with
its properties. The directory defaults to the configured schema_dir.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := rootOpts.SchemaDir
			if len(args) == 1 {
				dir = args[0]
			}
			return runSchema(rootOpts, dir, cmd)
		},
	}

	return cmd
}

func runSchema(opts *RootOptions, dir string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	reg, err := loadRegistry(f, dir)
	if err != nil {
		return err
	}

	result := SchemaResult{Dir: dir, Entities: []EntityInfo{}}
	for _, name := range reg.Names() {
		e, _ := reg.Lookup(name)
		info := EntityInfo{Name: e.Name, Properties: make([]PropertyInfo, 0, len(e.Properties))}
		for _, p := range e.Properties {
			info.Properties = append(info.Properties, PropertyInfo{
				Name: p.Name,
				Type: p.Type.String(),
				Kind: p.Kind.String(),
			})
		}
		result.Entities = append(result.Entities, info)
	}
	return f.Success(result)
}
