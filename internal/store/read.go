package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/queryir"
	"github.com/roach88/pathql/internal/querysql"
)

// Run serializes q with the SQLite dialect in params mode, executes it and
// decodes the result rows to the declared projection types. A
// multi-column projection yields []any rows, like engine.Executor.Run.
//
// Returns an empty slice (not nil) when no rows match.
func (s *Store) Run(ctx context.Context, q *queryir.Query) ([]any, error) {
	text, params, err := querysql.NewSerializer(querysql.SQLite).WithMode(querysql.ModeParams).SerializeQuery(q)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	types := projectionTypes(q.Select)
	rows, err := s.RunSQL(ctx, text, params...)
	if err != nil {
		return nil, err
	}

	out := make([]any, len(rows))
	for i, row := range rows {
		if len(row) != len(types) {
			return nil, fmt.Errorf("run: row %d has %d columns, projection has %d", i, len(row), len(types))
		}
		for j, v := range row {
			if row[j], err = unmarshalColumn(v, types[j]); err != nil {
				return nil, fmt.Errorf("run: row %d column %d: %w", i, j, err)
			}
		}
		if len(row) == 1 {
			out[i] = row[0]
		} else {
			out[i] = row
		}
	}
	return out, nil
}

// RunSQL executes text with params and returns the raw column values.
func (s *Store) RunSQL(ctx context.Context, text string, params ...any) ([][]any, error) {
	s.logger.Debug("sqlite query", "sql", text, "params", len(params))
	rows, err := s.db.QueryContext(ctx, text, params...)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", text, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	out := [][]any{}
	for rows.Next() {
		row, err := scanRow(rows, len(cols))
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// scanRow scans one row of n columns into plain values.
func scanRow(rows *sql.Rows, n int) ([]any, error) {
	vals := make([]any, n)
	ptrs := make([]any, n)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}
	for i, v := range vals {
		if b, ok := v.([]byte); ok {
			vals[i] = string(b)
		}
	}
	return vals, nil
}

// projectionTypes returns the declared type of each result column.
func projectionTypes(sel queryir.Expr) []*ir.Type {
	if p, ok := sel.(*queryir.Projection); ok {
		out := make([]*ir.Type, len(p.Args))
		for i, a := range p.Args {
			out[i] = a.Type()
		}
		return out
	}
	return []*ir.Type{sel.Type()}
}
