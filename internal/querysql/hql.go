package querysql

import (
	"github.com/roach88/pathql/internal/ops"
)

// commonTable holds the templates HQL and SQLite share.
func commonTable() map[ops.ID]*Template {
	return map[ops.ID]*Template{
		ops.And: Infix(" and ", PrecAnd),
		ops.Or:  Infix(" or ", PrecOr),
		ops.Not: Op("not {0}", PrecNot),

		ops.Eq:        Op("{0} = {1}", PrecComparison),
		ops.Ne:        Op("{0} <> {1}", PrecComparison),
		ops.Lt:        Op("{0} < {1}", PrecComparison),
		ops.Gt:        Op("{0} > {1}", PrecComparison),
		ops.Loe:       Op("{0} <= {1}", PrecComparison),
		ops.Goe:       Op("{0} >= {1}", PrecComparison),
		ops.Between:   Op("{0} between {1} and {2}", PrecComparison),
		ops.In:        Op("{0} in {(*)}", PrecComparison),
		ops.NotIn:     Op("{0} not in {(*)}", PrecComparison),
		ops.IsNull:    Op("{0} is null", PrecComparison),
		ops.IsNotNull: Op("{0} is not null", PrecComparison),

		ops.Lower:      Fn("lower({0})"),
		ops.Upper:      Fn("upper({0})"),
		ops.Trim:       Fn("trim({0})"),
		ops.Length:     Fn("length({0})"),
		ops.Like:       Op("{0} like {1}", PrecComparison),
		ops.LikeEscape: Op("{0} like {1} escape {2}", PrecComparison),

		ops.Add:     Op("{0} + {1}", PrecAdditive),
		ops.Sub:     StrictOp("{0} - {1}", PrecAdditive),
		ops.Mult:    Op("{0} * {1}", PrecMultiplicative),
		ops.Div:     StrictOp("{0} / {1}", PrecMultiplicative),
		ops.Negate:  Expr("-{0}", PrecUnary, PrecAtom),
		ops.Abs:     Fn("abs({0})"),
		ops.Sqrt:    Fn("sqrt({0})"),
		ops.Floor:   Fn("floor({0})"),
		ops.Round:   Fn("round({0})"),
		ops.Power:   Fn("power({0}, {1})"),
		ops.Log:     Expr("ln({0}) / ln({1})", PrecMultiplicative, 0),
		ops.Cot:     Fn("cot({0})"),
		ops.Coth:    Expr("cosh({0}) / sinh({0})", PrecMultiplicative, 0),
		ops.Degrees: Fn("degrees({0})"),
		ops.Radians: Fn("radians({0})"),

		ops.Sum:           Fn("sum({0})"),
		ops.Avg:           Fn("avg({0})"),
		ops.Min:           Fn("min({0})"),
		ops.Max:           Fn("max({0})"),
		ops.Count:         Fn("count({0})"),
		ops.CountDistinct: Fn("count(distinct {0})"),
		ops.CountAll:      Fn("count(*)"),

		ops.Coalesce: Fn("coalesce({*})"),
		ops.NullIf:   Fn("nullif({0}, {1})"),

		ops.Exists: Op("exists {0}", PrecComparison),
	}
}

func hqlTable() map[ops.ID]*Template {
	t := commonTable()

	t[ops.Concat] = Fn("concat({*})")
	t[ops.Substr1] = Expr("substring({0}, {1}+1)", PrecAtom, PrecMultiplicative)
	t[ops.Substr2] = Expr("substring({0}, {1}+1, {2}-{1})", PrecAtom, PrecMultiplicative)
	t[ops.StartsWith] = Op("{0} like concat({1}, '%')", PrecComparison)
	t[ops.EndsWith] = Op("{0} like concat('%', {1})", PrecComparison)
	t[ops.StringContains] = Op("{0} like concat('%', {1}, '%')", PrecComparison)

	t[ops.Mod] = Fn("mod({0}, {1})")
	t[ops.Ceil] = Fn("ceiling({0})")

	t[ops.Year] = Fn("year({0})")
	t[ops.Month] = Fn("month({0})")
	t[ops.Week] = Fn("week({0})")
	t[ops.DayOfMonth] = Fn("day({0})")
	t[ops.DayOfWeek] = Fn("dayofweek({0})")
	t[ops.DayOfYear] = Fn("dayofyear({0})")
	t[ops.Hour] = Fn("hour({0})")
	t[ops.Minute] = Fn("minute({0})")
	t[ops.Second] = Fn("second({0})")
	t[ops.Millisecond] = Fn("millisecond({0})")
	t[ops.YearMonth] = Expr("year({0}) * 100 + month({0})", PrecAdditive, 0)
	t[ops.YearWeek] = Expr("year({0}) * 100 + week({0})", PrecAdditive, 0)

	t[ops.ColSize] = Fn("size({0})")
	t[ops.ColIsEmpty] = Op("{0} is empty", PrecComparison)
	t[ops.ColContains] = Op("{1} member of {0}", PrecComparison)
	t[ops.MapSize] = Fn("size({0})")
	t[ops.MapContainsKey] = Op("{1} in indices({0})", PrecComparison)
	return t
}

// HQL is the default dialect: Hibernate Query Language with JDBC timestamp
// escapes and positional ?N parameters.
var HQL = NewTemplates("hql", hqlTable())
