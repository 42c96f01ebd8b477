package ops

import (
	"fmt"
	"slices"

	"github.com/roach88/pathql/internal/ir"
)

// ID is the stable operator identifier, e.g. "EQ" or "COUNT_DISTINCT".
type ID string

// Category groups operators by family.
type Category string

const (
	CategoryBoolean    Category = "boolean"
	CategoryComparison Category = "comparison"
	CategoryString     Category = "string"
	CategoryMath       Category = "math"
	CategoryDateTime   Category = "datetime"
	CategoryAggregate  Category = "aggregate"
	CategoryCollection Category = "collection"
	CategoryNull       Category = "null"
	CategorySubQuery   Category = "subquery"
)

// Variadic marks an Arity with no upper bound.
const Variadic = -1

// Arity bounds the argument count of an operator.
type Arity struct {
	Min int
	Max int // Variadic for no upper bound
}

// Accepts reports whether n arguments satisfy the arity.
func (a Arity) Accepts(n int) bool {
	return n >= a.Min && (a.Max == Variadic || n <= a.Max)
}

// String renders "2", "1..3" or "1..*".
func (a Arity) String() string {
	switch {
	case a.Max == Variadic:
		return fmt.Sprintf("%d..*", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("%d", a.Min)
	default:
		return fmt.Sprintf("%d..%d", a.Min, a.Max)
	}
}

// Operand classifies what an argument position accepts.
type Operand int

const (
	OperandAny Operand = iota
	OperandBool
	OperandNumeric
	OperandIntegral
	OperandString
	OperandDateTime
	OperandComparable
	OperandCollection
	OperandMap
	OperandNumericSeq    // numeric, or a collection of numerics
	OperandComparableSeq // comparable, or a collection of comparables
)

var operandNames = map[Operand]string{
	OperandAny:           "any",
	OperandBool:          "bool",
	OperandNumeric:       "numeric",
	OperandIntegral:      "integral",
	OperandString:        "string",
	OperandDateTime:      "datetime",
	OperandComparable:    "comparable",
	OperandCollection:    "collection",
	OperandMap:           "map",
	OperandNumericSeq:    "numeric sequence",
	OperandComparableSeq: "comparable sequence",
}

func (o Operand) String() string { return operandNames[o] }

// Accepts reports whether a value of declared type t may appear in a position
// of this class. Null and Any are accepted everywhere.
func (o Operand) Accepts(t *ir.Type) bool {
	switch t.Kind() {
	case ir.KindNull, ir.KindAny:
		return true
	case ir.KindInvalid:
		return false
	}
	switch o {
	case OperandAny:
		return true
	case OperandBool:
		return t.Kind() == ir.KindBool
	case OperandNumeric:
		return t.IsNumeric()
	case OperandIntegral:
		return t.IsIntegral()
	case OperandString:
		return t.Kind() == ir.KindString
	case OperandDateTime:
		return t.Kind() == ir.KindDateTime
	case OperandComparable:
		return t.IsComparable()
	case OperandCollection:
		return t.Kind() == ir.KindCollection
	case OperandMap:
		return t.Kind() == ir.KindMap
	case OperandNumericSeq:
		if t.Kind() == ir.KindCollection {
			return OperandNumeric.Accepts(t.Elem())
		}
		return t.IsNumeric()
	case OperandComparableSeq:
		if t.Kind() == ir.KindCollection {
			return OperandComparable.Accepts(t.Elem())
		}
		return t.IsComparable()
	}
	return false
}

// Result derives the declared result type of an operation.
type Result int

const (
	ResultBool Result = iota
	ResultInt32
	ResultInt64
	ResultFloat64
	ResultString
	ResultFirstArg     // type of the first argument
	ResultWidest       // numeric promotion across all arguments
	ResultElement      // element type of the first (collection) argument
	ResultFirstNonNull // first argument whose type is not null
	ResultScalarOf     // first argument, or its element type when it is a collection
)

// Operator is one catalogue entry.
type Operator struct {
	ID        ID
	Category  Category
	Arity     Arity
	Signature []Operand // per position; the last entry repeats for variadic tails
	Result    Result
}

// OperandAt returns the operand class for argument position i.
func (o Operator) OperandAt(i int) Operand {
	if len(o.Signature) == 0 {
		return OperandAny
	}
	if i >= len(o.Signature) {
		return o.Signature[len(o.Signature)-1]
	}
	return o.Signature[i]
}

// IsAggregate reports whether the operator folds a sequence.
func (o Operator) IsAggregate() bool {
	return o.Category == CategoryAggregate
}

// IsCount reports whether the operator is one of the COUNT family.
func (o Operator) IsCount() bool {
	return o.ID == Count || o.ID == CountDistinct || o.ID == CountAll
}

// ResultType derives the declared result type from argument types.
func (o Operator) ResultType(args []*ir.Type) *ir.Type {
	switch o.Result {
	case ResultBool:
		return ir.Bool
	case ResultInt32:
		return ir.Int32
	case ResultInt64:
		return ir.Int64
	case ResultFloat64:
		return ir.Float64
	case ResultString:
		return ir.String
	case ResultFirstArg:
		if len(args) > 0 {
			return args[0]
		}
	case ResultWidest:
		var t *ir.Type
		for _, a := range args {
			switch {
			case !a.IsNumeric():
				continue
			case t == nil:
				t = a
			default:
				t = ir.Widest(t, a)
			}
		}
		if t != nil {
			return t
		}
	case ResultElement:
		if len(args) > 0 && args[0].Kind() == ir.KindCollection {
			return args[0].Elem()
		}
	case ResultScalarOf:
		if len(args) > 0 {
			if args[0].Kind() == ir.KindCollection {
				return args[0].Elem()
			}
			return args[0]
		}
	case ResultFirstNonNull:
		for _, a := range args {
			if a.Kind() != ir.KindNull {
				return a
			}
		}
	}
	return ir.Any
}

// Check validates argument types against the operator's arity and signature.
func (o Operator) Check(args []*ir.Type) error {
	if !o.Arity.Accepts(len(args)) {
		return fmt.Errorf("%s expects %s arguments, got %d", o.ID, o.Arity, len(args))
	}
	for i, t := range args {
		want := o.OperandAt(i)
		if !want.Accepts(t) {
			return fmt.Errorf("%s argument %d: expected %s, got %s", o.ID, i, want, t)
		}
	}
	return nil
}

// Lookup returns the catalogue entry for id.
func Lookup(id ID) (Operator, bool) {
	op, ok := catalogue[id]
	return op, ok
}

// MustLookup is like Lookup but panics for unknown ids.
// Use only with the ID constants of this package.
func MustLookup(id ID) Operator {
	op, ok := catalogue[id]
	if !ok {
		panic(fmt.Sprintf("ops: unknown operator %q", id))
	}
	return op
}

// All returns every catalogue entry sorted by ID.
func All() []Operator {
	out := make([]Operator, 0, len(catalogue))
	for _, op := range catalogue {
		out = append(out, op)
	}
	slices.SortFunc(out, func(a, b Operator) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}
