package queryir

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/ops"
)

// Expr is a typed expression node.
//
// This is a sealed interface - only types in this package implement it.
// Every node reports its declared type, which never changes after
// construction.
type Expr interface {
	// Type returns the declared value type.
	Type() *ir.Type
	// String returns a compact debug rendering.
	String() string

	exprNode() // Marker method - seals interface to this package
}

// ConstructionError reports an invalid tree at build time: an unknown
// operator, an arity or operand mismatch, or a malformed node.
type ConstructionError struct {
	Op      ops.ID // offending operator, empty for non-operation nodes
	Member  string // offending member or node kind
	Message string
}

func (e *ConstructionError) Error() string {
	switch {
	case e.Op != "":
		return fmt.Sprintf("construct %s: %s", e.Op, e.Message)
	case e.Member != "":
		return fmt.Sprintf("construct %s: %s", e.Member, e.Message)
	default:
		return "construct: " + e.Message
	}
}

// Constant wraps a literal value. Its declared type is the runtime type of the
// literal.
type Constant struct {
	Value any
}

func (*Constant) exprNode() {}

// NewConstant wraps v.
func NewConstant(v any) *Constant {
	return &Constant{Value: v}
}

// Type returns ir.TypeOfValue(Value).
func (c *Constant) Type() *ir.Type { return ir.TypeOfValue(c.Value) }

func (c *Constant) String() string {
	switch v := c.Value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case decimal.Decimal:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Operation applies a catalogue operator to ordered arguments.
type Operation struct {
	Op           ops.Operator
	Args         []Expr
	DeclaredType *ir.Type
}

func (*Operation) exprNode() {}

// Type returns the declared result type.
func (o *Operation) Type() *ir.Type { return o.DeclaredType }

func (o *Operation) String() string {
	parts := make([]string, len(o.Args))
	for i, a := range o.Args {
		parts[i] = exprString(a)
	}
	return string(o.Op.ID) + "(" + strings.Join(parts, ", ") + ")"
}

// NewOperation builds an operation, deriving the declared type from the
// operator's result rule.
//
// Returns *ConstructionError for unknown operators, nil arguments, or
// arguments that violate the operator's arity or signature.
func NewOperation(id ops.ID, args ...Expr) (*Operation, error) {
	return newOperation(id, nil, args)
}

// NewTypedOperation is like NewOperation but uses declared as the result
// type. Metamodel code uses it where the declared type is fixed by the field,
// e.g. SUM over an int32 column declared int32.
func NewTypedOperation(id ops.ID, declared *ir.Type, args ...Expr) (*Operation, error) {
	if declared == nil {
		return nil, &ConstructionError{Op: id, Message: "declared type is nil"}
	}
	return newOperation(id, declared, args)
}

// MustOperation is like NewOperation but panics on error.
// Use only where arguments are fixed by typed builders.
func MustOperation(id ops.ID, args ...Expr) *Operation {
	op, err := NewOperation(id, args...)
	if err != nil {
		panic(err)
	}
	return op
}

func newOperation(id ops.ID, declared *ir.Type, args []Expr) (*Operation, error) {
	op, ok := ops.Lookup(id)
	if !ok {
		return nil, &ConstructionError{Op: id, Message: "unknown operator"}
	}
	types := make([]*ir.Type, len(args))
	for i, a := range args {
		if a == nil {
			return nil, &ConstructionError{Op: id, Message: fmt.Sprintf("argument %d is nil", i)}
		}
		types[i] = a.Type()
	}
	if err := op.Check(types); err != nil {
		return nil, &ConstructionError{Op: id, Message: err.Error()}
	}
	if declared == nil {
		declared = op.ResultType(types)
	}
	return &Operation{
		Op:           op,
		Args:         append([]Expr(nil), args...),
		DeclaredType: declared,
	}, nil
}

// Alias binds a source expression to a new name. It never changes the value
// semantics of its source.
type Alias struct {
	Source Expr
	To     string
}

func (*Alias) exprNode() {}

// NewAlias binds src to the name to.
func NewAlias(src Expr, to string) (*Alias, error) {
	switch {
	case src == nil:
		return nil, &ConstructionError{Member: "alias", Message: "source is nil"}
	case to == "":
		return nil, &ConstructionError{Member: "alias", Message: "target name is empty"}
	}
	return &Alias{Source: src, To: to}, nil
}

// Type returns the source's declared type.
func (a *Alias) Type() *ir.Type { return a.Source.Type() }

func (a *Alias) String() string { return exprString(a.Source) + " as " + a.To }

// SubQuery projects an expression over ordered sources filtered by predicates.
// Its declared type is a collection of the projection type.
type SubQuery struct {
	Projection Expr
	From       []Expr // root entity paths, or aliases over collection paths
	Where      []Expr // boolean predicates, joined by AND
}

func (*SubQuery) exprNode() {}

// NewSubQuery checks that at least one source exists and that every
// predicate is boolean.
func NewSubQuery(projection Expr, from []Expr, where ...Expr) (*SubQuery, error) {
	if projection == nil {
		return nil, &ConstructionError{Member: "subquery", Message: "projection is nil"}
	}
	if len(from) == 0 {
		return nil, &ConstructionError{Member: "subquery", Message: "no sources"}
	}
	for i, s := range from {
		if s == nil {
			return nil, &ConstructionError{Member: "subquery", Message: fmt.Sprintf("source %d is nil", i)}
		}
	}
	for i, w := range where {
		if w == nil || !isBoolean(w.Type()) {
			return nil, &ConstructionError{Member: "subquery", Message: fmt.Sprintf("predicate %d is not boolean", i)}
		}
	}
	return &SubQuery{
		Projection: projection,
		From:       append([]Expr(nil), from...),
		Where:      append([]Expr(nil), where...),
	}, nil
}

// Type returns a collection of the projection type.
func (s *SubQuery) Type() *ir.Type { return ir.CollectionOf(s.Projection.Type()) }

func (s *SubQuery) String() string {
	var b strings.Builder
	b.WriteString("(select ")
	b.WriteString(exprString(s.Projection))
	b.WriteString(" from ")
	b.WriteString(joinExprs(s.From, ", "))
	if len(s.Where) > 0 {
		b.WriteString(" where ")
		b.WriteString(joinExprs(s.Where, " and "))
	}
	b.WriteByte(')')
	return b.String()
}

// Projection is a multi-column factory expression. Evaluation yields one
// []any row per input row.
type Projection struct {
	Args []Expr
}

func (*Projection) exprNode() {}

// NewProjection builds a projection over args.
func NewProjection(args ...Expr) (*Projection, error) {
	if len(args) == 0 {
		return nil, &ConstructionError{Member: "projection", Message: "no arguments"}
	}
	for i, a := range args {
		if a == nil {
			return nil, &ConstructionError{Member: "projection", Message: fmt.Sprintf("argument %d is nil", i)}
		}
	}
	return &Projection{Args: append([]Expr(nil), args...)}, nil
}

// Type returns ir.Any; a projection row has no single declared type.
func (p *Projection) Type() *ir.Type { return ir.Any }

func (p *Projection) String() string { return joinExprs(p.Args, ", ") }

// Conversion adapts a source's native result to a declared target type.
// Serialization renders the source unchanged; evaluation narrows the value.
type Conversion struct {
	Source Expr
	Target *ir.Type
}

func (*Conversion) exprNode() {}

// NewConversion wraps src so that it yields values of target.
func NewConversion(src Expr, target *ir.Type) *Conversion {
	return &Conversion{Source: src, Target: target}
}

// Type returns the target type.
func (c *Conversion) Type() *ir.Type { return c.Target }

func (c *Conversion) String() string {
	return "convert(" + exprString(c.Source) + ", " + c.Target.String() + ")"
}

func isBoolean(t *ir.Type) bool {
	switch t.Kind() {
	case ir.KindBool, ir.KindAny, ir.KindNull:
		return true
	}
	return false
}

func exprString(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}

func joinExprs(es []Expr, sep string) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = exprString(e)
	}
	return strings.Join(parts, sep)
}
