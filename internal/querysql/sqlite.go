package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/pathql/internal/ops"
	"github.com/roach88/pathql/internal/queryir"
)

// strftime extracts one calendar field as an integer.
func strftime(format string) *Template {
	return Fn("cast(strftime('" + format + "', {0}) as integer)")
}

func sqliteTable() map[ops.ID]*Template {
	t := commonTable()

	t[ops.Concat] = Infix(" || ", PrecConcat)
	t[ops.Substr1] = Expr("substr({0}, {1}+1)", PrecAtom, PrecMultiplicative)
	t[ops.Substr2] = Expr("substr({0}, {1}+1, {2}-{1})", PrecAtom, PrecMultiplicative)
	t[ops.StartsWith] = Op("{0} like {1} || '%'", PrecComparison)
	t[ops.EndsWith] = Op("{0} like '%' || {1}", PrecComparison)
	t[ops.StringContains] = Op("{0} like '%' || {1} || '%'", PrecComparison)

	t[ops.Mod] = StrictOp("{0} % {1}", PrecMultiplicative)
	t[ops.Ceil] = Fn("ceil({0})")

	t[ops.Year] = strftime("%Y")
	t[ops.Month] = strftime("%m")
	t[ops.Week] = strftime("%V")
	t[ops.DayOfMonth] = strftime("%d")
	t[ops.DayOfWeek] = Expr("cast(strftime('%w', {0}) as integer) + 1", PrecAdditive, 0)
	t[ops.DayOfYear] = strftime("%j")
	t[ops.Hour] = strftime("%H")
	t[ops.Minute] = strftime("%M")
	t[ops.Second] = strftime("%S")
	t[ops.Millisecond] = Fn("cast(substr(strftime('%f', {0}), 4) as integer)")
	t[ops.YearMonth] = strftime("%Y%m")
	t[ops.YearWeek] = strftime("%G%V")
	return t
}

// sqlitePath renders var.column references. An entity-valued root stands
// for its id column; deeper navigation needs an explicit join.
func sqlitePath(p *queryir.Path) (string, error) {
	chain := p.Metadata.Chain()
	switch {
	case len(chain) == 1 && p.Kind == queryir.PathEntity:
		return p.Root() + ".id", nil
	case len(chain) == 1:
		return p.Root(), nil
	case len(chain) == 2 && chain[0].Kind() == queryir.MetadataProperty:
		return p.String(), nil
	}
	return "", &TemplateError{Dialect: "sqlite", Message: fmt.Sprintf("path %s needs a join", p)}
}

func sqliteWindow(limit, offset int) string {
	if limit <= 0 && offset > 0 {
		return fmt.Sprintf(" limit -1 offset %d", offset)
	}
	return window(limit, offset)
}

// SQLite renders plain SQL over one table per entity, with a column per
// scalar property. Booleans are 0/1 and times TimeLayout text. Collection
// operators have no templates. Parameters are numbered (?N) so a template
// may repeat an argument.
var SQLite = newSQLite()

func newSQLite() *Templates {
	t := NewTemplates("sqlite", sqliteTable())
	t.Literal = sqliteLiteral
	t.Bind = sqliteBind
	t.Path = sqlitePath
	t.JoinCondition = "on"
	t.Window = sqliteWindow
	return t
}

// Identifier quotes name for SQLite when it is not a plain identifier.
func Identifier(name string) string {
	if name != "" && strings.IndexFunc(name, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) < 0 {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
