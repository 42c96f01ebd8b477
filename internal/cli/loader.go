package cli

import (
	"fmt"
	"os"

	"github.com/roach88/pathql/internal/compiler"
	"github.com/roach88/pathql/internal/convert"
	"github.com/roach88/pathql/internal/querydoc"
	"github.com/roach88/pathql/internal/queryir"
	"github.com/roach88/pathql/internal/querysql"
	"github.com/roach88/pathql/internal/schema"
)

// checkFile fails with a command error when path does not exist.
func checkFile(f *OutputFormatter, what, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("%s not found: %s", what, path), nil)
	}
	return nil
}

// loadRegistry compiles the CUE schemas in dir.
func loadRegistry(f *OutputFormatter, dir string) (*schema.Registry, error) {
	if err := checkFile(f, "schema directory", dir); err != nil {
		return nil, err
	}
	loaded, err := compiler.LoadDir(dir)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeSchema, "failed to load schema", err)
	}
	reg, err := loaded.Registry()
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeSchema, "failed to register schema", err)
	}
	f.VerboseLog("Loaded %d entities from %d CUE file(s) in %s", len(loaded.Entities), loaded.FileCount, dir)
	return reg, nil
}

// loadQuery reads the query document at path and decodes it against reg,
// applying the conversion layer when enabled.
func loadQuery(f *OutputFormatter, opts *RootOptions, reg *schema.Registry, path string) (*queryir.Query, error) {
	doc, err := querydoc.LoadFile(path)
	if err != nil {
		return nil, f.Fail(ExitFailure, ErrCodeQuery, "failed to parse query", err)
	}
	q, err := querydoc.NewDecoder(reg).Query(doc)
	if err != nil {
		return nil, f.Fail(ExitFailure, ErrCodeQuery, "failed to decode query", err)
	}
	if opts.Convert {
		q = convert.ConvertQuery(q)
	}
	return q, nil
}

// dialect returns the templates of a dialect name.
func dialect(name string) (*querysql.Templates, error) {
	switch name {
	case "hql":
		return querysql.HQL, nil
	case "sqlite":
		return querysql.SQLite, nil
	}
	return nil, fmt.Errorf("unknown dialect %q", name)
}
