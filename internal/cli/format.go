package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/pathql/internal/querydoc"
	"github.com/roach88/pathql/internal/querysql"
)

// formatValue renders one result value for text output.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case time.Time:
		return x.UTC().Format(querysql.TimeLayout)
	case decimal.Decimal:
		return x.String()
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprint(v)
}

// Rows is a list of result rows; a multi-column row is a []any.
type Rows []any

// Text implements Texter: one row per line, columns separated by tabs.
func (r Rows) Text(w io.Writer) {
	for _, row := range r {
		cols, ok := row.([]any)
		if !ok {
			fmt.Fprintln(w, formatValue(row))
			continue
		}
		parts := make([]string, len(cols))
		for i, c := range cols {
			parts[i] = formatValue(c)
		}
		fmt.Fprintln(w, strings.Join(parts, "\t"))
	}
	fmt.Fprintf(w, "(%d rows)\n", len(r))
}

// export converts rows to JSON-friendly values.
func (r Rows) export() []any {
	out := make([]any, len(r))
	for i, row := range r {
		out[i] = querydoc.Export(row)
	}
	return out
}
