package queryir

import (
	"fmt"
	"reflect"

	"github.com/roach88/pathql/internal/ir"
)

// ValidationResult contains the findings of a whole-tree check.
type ValidationResult struct {
	// IsValid is true when no problems were found.
	IsValid bool

	// Warnings lists every problem found, in traversal order.
	Warnings []string
}

// Validate re-checks a tree that may have been assembled by hand, bypassing
// the constructors.
//
// Checked rules:
//  1. No nil nodes, nil metadata or nil declared types
//  2. Operations satisfy their operator's arity and signature
//  3. Aliases have a target name
//  4. Sub-queries have sources and boolean predicates
//  5. Constants hold plain values (no entity structs)
//
// Validate is a pure function with no side effects.
func Validate(e Expr) ValidationResult {
	v := &validator{warnings: []string{}}
	v.validateExpr(e)
	return v.result()
}

// ValidateQuery checks every expression of a top-level query.
func ValidateQuery(q *Query) ValidationResult {
	v := &validator{warnings: []string{}}
	if q == nil {
		v.addWarning("nil query")
		return v.result()
	}
	v.validateExpr(q.Select)
	if len(q.From) == 0 {
		v.addWarning("query has no sources")
	}
	for i, s := range q.From {
		v.validateExpr(s.Expr)
		if s.Expr != nil && s.Variable() == "" {
			v.addWarning("source %d (%s) binds no variable", i, s.Expr)
		}
		if i == 0 && s.Join == JoinLeft {
			v.addWarning("first source cannot be left joined")
		}
		if s.On != nil {
			v.validatePredicate("join condition", s.On)
		}
	}
	for _, w := range q.Where {
		v.validatePredicate("where", w)
	}
	for _, g := range q.GroupBy {
		v.validateExpr(g)
	}
	for _, h := range q.Having {
		v.validatePredicate("having", h)
	}
	if len(q.Having) > 0 && len(q.GroupBy) == 0 {
		v.addWarning("having without group by")
	}
	for _, o := range q.OrderBy {
		v.validateExpr(o.Expr)
	}
	if q.Limit < 0 || q.Offset < 0 {
		v.addWarning("negative limit or offset")
	}
	return v.result()
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) result() ValidationResult {
	return ValidationResult{IsValid: len(v.warnings) == 0, Warnings: v.warnings}
}

func (v *validator) validatePredicate(where string, e Expr) {
	if e != nil && !isBoolean(e.Type()) {
		v.addWarning("%s predicate %s is %s, not bool", where, e, e.Type())
	}
	v.validateExpr(e)
}

func (v *validator) validateExpr(e Expr) {
	if e == nil {
		v.addWarning("nil expression")
		return
	}

	switch n := e.(type) {
	case *Constant:
		v.validateConstant(n)
	case *Path:
		v.validatePath(n)
	case *Operation:
		v.validateOperation(n)
	case *Alias:
		if n.To == "" {
			v.addWarning("alias of %s has no target name", n.Source)
		}
		v.validateExpr(n.Source)
	case *SubQuery:
		v.validateSubQuery(n)
	case *Projection:
		if len(n.Args) == 0 {
			v.addWarning("empty projection")
		}
		for _, a := range n.Args {
			v.validateExpr(a)
		}
	case *Conversion:
		if n.Target == nil {
			v.addWarning("conversion of %s has no target type", n.Source)
		} else if !n.Target.IsScalar() {
			v.addWarning("conversion of %s targets non-scalar %s", n.Source, n.Target)
		}
		v.validateExpr(n.Source)
	default:
		v.addWarning("unknown expression type: %T", e)
	}
}

func (v *validator) validateConstant(c *Constant) {
	if c.Value == nil {
		return
	}
	if rt := reflect.TypeOf(c.Value); rt.Kind() == reflect.Struct && c.Type().Kind() == ir.KindEntity {
		v.addWarning("constant of struct type %s", rt)
	}
}

func (v *validator) validatePath(p *Path) {
	if p.Metadata == nil {
		v.addWarning("path without metadata")
		return
	}
	if p.DeclaredType == nil {
		v.addWarning("path %s has no declared type", p.Metadata)
		return
	}
	if p.Metadata.IsRoot() && p.Metadata.Name() == "" {
		v.addWarning("root path with empty variable name")
	}
	want := PathKindFor(p.DeclaredType)
	if p.Kind != want && p.Kind != PathScalar {
		v.addWarning("path %s is %s but its type %s implies %s", p.Metadata, p.Kind, p.DeclaredType, want)
	}
}

func (v *validator) validateOperation(o *Operation) {
	if o.DeclaredType == nil {
		v.addWarning("operation %s has no declared type", o.Op.ID)
	}
	types := make([]*ir.Type, len(o.Args))
	for i, a := range o.Args {
		if a == nil {
			v.addWarning("operation %s argument %d is nil", o.Op.ID, i)
			continue
		}
		types[i] = a.Type()
		v.validateExpr(a)
	}
	if o.Op.ID == "" {
		v.addWarning("operation without operator")
		return
	}
	if err := o.Op.Check(types); err != nil {
		v.addWarning("%v", err)
	}
}

func (v *validator) validateSubQuery(s *SubQuery) {
	v.validateExpr(s.Projection)
	if len(s.From) == 0 {
		v.addWarning("sub-query %s has no sources", s)
	}
	for _, f := range s.From {
		v.validateExpr(f)
	}
	for _, w := range s.Where {
		v.validatePredicate("sub-query", w)
	}
}
