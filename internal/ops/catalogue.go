package ops

// Operator IDs.
const (
	And ID = "AND"
	Or  ID = "OR"
	Not ID = "NOT"

	Eq        ID = "EQ"
	Ne        ID = "NE"
	Lt        ID = "LT"
	Gt        ID = "GT"
	Loe       ID = "LOE"
	Goe       ID = "GOE"
	Between   ID = "BETWEEN"
	In        ID = "IN"
	NotIn     ID = "NOT_IN"
	IsNull    ID = "IS_NULL"
	IsNotNull ID = "IS_NOT_NULL"

	Concat         ID = "CONCAT"
	Lower          ID = "LOWER"
	Upper          ID = "UPPER"
	Trim           ID = "TRIM"
	Length         ID = "LENGTH"
	Substr1        ID = "SUBSTR_1ARG"
	Substr2        ID = "SUBSTR_2ARGS"
	StartsWith     ID = "STARTS_WITH"
	EndsWith       ID = "ENDS_WITH"
	StringContains ID = "STRING_CONTAINS"
	Like           ID = "LIKE"
	LikeEscape     ID = "LIKE_ESCAPE"

	Add     ID = "ADD"
	Sub     ID = "SUB"
	Mult    ID = "MULT"
	Div     ID = "DIV"
	Mod     ID = "MOD"
	Negate  ID = "NEGATE"
	Abs     ID = "ABS"
	Sqrt    ID = "SQRT"
	Floor   ID = "FLOOR"
	Ceil    ID = "CEIL"
	Round   ID = "ROUND"
	Power   ID = "POWER"
	Log     ID = "LOG"
	Cot     ID = "COT"
	Coth    ID = "COTH"
	Degrees ID = "DEGREES"
	Radians ID = "RADIANS"

	Year        ID = "YEAR"
	Month       ID = "MONTH"
	Week        ID = "WEEK"
	DayOfMonth  ID = "DAY_OF_MONTH"
	DayOfWeek   ID = "DAY_OF_WEEK"
	DayOfYear   ID = "DAY_OF_YEAR"
	Hour        ID = "HOUR"
	Minute      ID = "MINUTE"
	Second      ID = "SECOND"
	Millisecond ID = "MILLISECOND"
	YearMonth   ID = "YEAR_MONTH"
	YearWeek    ID = "YEAR_WEEK"

	Sum           ID = "SUM"
	Avg           ID = "AVG"
	Min           ID = "MIN"
	Max           ID = "MAX"
	Count         ID = "COUNT"
	CountDistinct ID = "COUNT_DISTINCT"
	CountAll      ID = "COUNT_ALL"

	ColSize        ID = "COL_SIZE"
	ColIsEmpty     ID = "COL_IS_EMPTY"
	ColContains    ID = "COL_CONTAINS"
	MapSize        ID = "MAP_SIZE"
	MapContainsKey ID = "MAP_CONTAINS_KEY"

	Coalesce ID = "COALESCE"
	NullIf   ID = "NULLIF"

	Exists ID = "EXISTS"
)

func fixed(n int) Arity { return Arity{Min: n, Max: n} }

func sig(o ...Operand) []Operand { return o }

var catalogue = map[ID]Operator{}

func register(ops ...Operator) {
	for _, op := range ops {
		if _, dup := catalogue[op.ID]; dup {
			panic("ops: duplicate operator " + string(op.ID))
		}
		catalogue[op.ID] = op
	}
}

func init() {
	register(
		Operator{And, CategoryBoolean, Arity{2, Variadic}, sig(OperandBool), ResultBool},
		Operator{Or, CategoryBoolean, Arity{2, Variadic}, sig(OperandBool), ResultBool},
		Operator{Not, CategoryBoolean, fixed(1), sig(OperandBool), ResultBool},
	)

	register(
		Operator{Eq, CategoryComparison, fixed(2), sig(OperandAny), ResultBool},
		Operator{Ne, CategoryComparison, fixed(2), sig(OperandAny), ResultBool},
		Operator{Lt, CategoryComparison, fixed(2), sig(OperandComparable), ResultBool},
		Operator{Gt, CategoryComparison, fixed(2), sig(OperandComparable), ResultBool},
		Operator{Loe, CategoryComparison, fixed(2), sig(OperandComparable), ResultBool},
		Operator{Goe, CategoryComparison, fixed(2), sig(OperandComparable), ResultBool},
		Operator{Between, CategoryComparison, fixed(3), sig(OperandComparable), ResultBool},
		Operator{In, CategoryComparison, Arity{2, Variadic}, sig(OperandAny), ResultBool},
		Operator{NotIn, CategoryComparison, Arity{2, Variadic}, sig(OperandAny), ResultBool},
		Operator{IsNull, CategoryComparison, fixed(1), sig(OperandAny), ResultBool},
		Operator{IsNotNull, CategoryComparison, fixed(1), sig(OperandAny), ResultBool},
	)

	register(
		Operator{Concat, CategoryString, Arity{2, Variadic}, sig(OperandString), ResultString},
		Operator{Lower, CategoryString, fixed(1), sig(OperandString), ResultString},
		Operator{Upper, CategoryString, fixed(1), sig(OperandString), ResultString},
		Operator{Trim, CategoryString, fixed(1), sig(OperandString), ResultString},
		Operator{Length, CategoryString, fixed(1), sig(OperandString), ResultInt32},
		Operator{Substr1, CategoryString, fixed(2), sig(OperandString, OperandIntegral), ResultString},
		Operator{Substr2, CategoryString, fixed(3), sig(OperandString, OperandIntegral, OperandIntegral), ResultString},
		Operator{StartsWith, CategoryString, fixed(2), sig(OperandString), ResultBool},
		Operator{EndsWith, CategoryString, fixed(2), sig(OperandString), ResultBool},
		Operator{StringContains, CategoryString, fixed(2), sig(OperandString), ResultBool},
		Operator{Like, CategoryString, fixed(2), sig(OperandString), ResultBool},
		Operator{LikeEscape, CategoryString, fixed(3), sig(OperandString), ResultBool},
	)

	register(
		Operator{Add, CategoryMath, fixed(2), sig(OperandNumeric), ResultWidest},
		Operator{Sub, CategoryMath, fixed(2), sig(OperandNumeric), ResultWidest},
		Operator{Mult, CategoryMath, fixed(2), sig(OperandNumeric), ResultWidest},
		Operator{Div, CategoryMath, fixed(2), sig(OperandNumeric), ResultWidest},
		Operator{Mod, CategoryMath, fixed(2), sig(OperandNumeric), ResultWidest},
		Operator{Negate, CategoryMath, fixed(1), sig(OperandNumeric), ResultFirstArg},
		Operator{Abs, CategoryMath, fixed(1), sig(OperandNumeric), ResultFirstArg},
		Operator{Sqrt, CategoryMath, fixed(1), sig(OperandNumeric), ResultFloat64},
		Operator{Floor, CategoryMath, fixed(1), sig(OperandNumeric), ResultFirstArg},
		Operator{Ceil, CategoryMath, fixed(1), sig(OperandNumeric), ResultFirstArg},
		Operator{Round, CategoryMath, fixed(1), sig(OperandNumeric), ResultFirstArg},
		Operator{Power, CategoryMath, fixed(2), sig(OperandNumeric), ResultFloat64},
		Operator{Log, CategoryMath, fixed(2), sig(OperandNumeric), ResultFloat64},
		Operator{Cot, CategoryMath, fixed(1), sig(OperandNumeric), ResultFloat64},
		Operator{Coth, CategoryMath, fixed(1), sig(OperandNumeric), ResultFloat64},
		Operator{Degrees, CategoryMath, fixed(1), sig(OperandNumeric), ResultFloat64},
		Operator{Radians, CategoryMath, fixed(1), sig(OperandNumeric), ResultFloat64},
	)

	for _, id := range []ID{Year, Month, Week, DayOfMonth, DayOfWeek, DayOfYear,
		Hour, Minute, Second, Millisecond, YearMonth, YearWeek} {
		register(Operator{id, CategoryDateTime, fixed(1), sig(OperandDateTime), ResultInt32})
	}

	register(
		Operator{Sum, CategoryAggregate, fixed(1), sig(OperandNumericSeq), ResultScalarOf},
		Operator{Avg, CategoryAggregate, fixed(1), sig(OperandNumericSeq), ResultFloat64},
		Operator{Min, CategoryAggregate, fixed(1), sig(OperandComparableSeq), ResultScalarOf},
		Operator{Max, CategoryAggregate, fixed(1), sig(OperandComparableSeq), ResultScalarOf},
		Operator{Count, CategoryAggregate, fixed(1), sig(OperandAny), ResultInt64},
		Operator{CountDistinct, CategoryAggregate, fixed(1), sig(OperandAny), ResultInt64},
		Operator{CountAll, CategoryAggregate, fixed(0), nil, ResultInt64},
	)

	register(
		Operator{ColSize, CategoryCollection, fixed(1), sig(OperandCollection), ResultInt32},
		Operator{ColIsEmpty, CategoryCollection, fixed(1), sig(OperandCollection), ResultBool},
		Operator{ColContains, CategoryCollection, fixed(2), sig(OperandCollection, OperandAny), ResultBool},
		Operator{MapSize, CategoryCollection, fixed(1), sig(OperandMap), ResultInt32},
		Operator{MapContainsKey, CategoryCollection, fixed(2), sig(OperandMap, OperandAny), ResultBool},
	)

	register(
		Operator{Coalesce, CategoryNull, Arity{1, Variadic}, sig(OperandAny), ResultFirstNonNull},
		Operator{NullIf, CategoryNull, fixed(2), sig(OperandAny), ResultFirstArg},
	)

	register(
		Operator{Exists, CategorySubQuery, fixed(1), sig(OperandCollection), ResultBool},
	)
}
