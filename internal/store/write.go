package store

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/pathql/internal/engine"
	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/querysql"
	"github.com/roach88/pathql/internal/schema"
)

// columns returns the properties of e that are stored as columns, in
// declaration order.
func columns(e *schema.Entity) []schema.Property {
	var out []schema.Property
	for _, p := range e.Properties {
		if columnType(p.Type) != "" {
			out = append(out, p)
		}
	}
	return out
}

// CreateTable creates the table of e if it does not exist.
// This function is idempotent.
func (s *Store) CreateTable(ctx context.Context, e *schema.Entity) error {
	cols := columns(e)
	if len(cols) == 0 {
		return fmt.Errorf("create table %s: entity has no scalar properties", e.Name)
	}
	defs := make([]string, len(cols))
	for i, p := range cols {
		defs[i] = querysql.Identifier(p.Name) + " " + columnType(p.Type)
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", querysql.Identifier(e.Name), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", e.Name, err)
	}
	s.logger.Debug("table created", "entity", e.Name, "columns", len(cols))
	return nil
}

// Insert writes rows into the table of e. Rows may be structs, pointers to
// structs or maps keyed by property name; absent members are stored as
// NULL.
func (s *Store) Insert(ctx context.Context, e *schema.Entity, rows []any) error {
	if len(rows) == 0 {
		return nil
	}
	cols := columns(e)
	names := make([]string, len(cols))
	for i, p := range cols {
		names[i] = querysql.Identifier(p.Name)
	}

	b := sq.Insert(querysql.Identifier(e.Name)).Columns(names...)
	for i, row := range rows {
		vals := make([]any, len(cols))
		for j, p := range cols {
			v, err := engine.Get(row, p.Name)
			if err != nil && !engine.IsNoSuchField(err) {
				return fmt.Errorf("insert %s[%d].%s: %w", e.Name, i, p.Name, err)
			}
			vals[j] = marshalValue(v)
		}
		b = b.Values(vals...)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("insert %s: %w", e.Name, err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", e.Name, err)
	}
	s.logger.Debug("rows inserted", "entity", e.Name, "rows", len(rows))
	return nil
}

// Load creates and fills one table per source collection. Entities are
// looked up in reg and processed in name order.
func (s *Store) Load(ctx context.Context, reg *schema.Registry, sources map[string][]any) error {
	for _, name := range ir.SortedKeys(sources) {
		e, ok := reg.Lookup(name)
		if !ok {
			return fmt.Errorf("load: unknown entity %q", name)
		}
		if err := s.CreateTable(ctx, e); err != nil {
			return fmt.Errorf("load: %w", err)
		}
		if err := s.Insert(ctx, e, sources[name]); err != nil {
			return fmt.Errorf("load: %w", err)
		}
	}
	return nil
}
