package querysql

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/queryir"
)

// Mode selects how constants are rendered.
type Mode int

const (
	// ModeLiterals inlines constants as dialect literals.
	ModeLiterals Mode = iota
	// ModeParams renders constants as placeholders and returns them as
	// parameters. Null constants stay literal.
	ModeParams
)

// Serializer renders expression trees with a dialect's templates.
//
// A Serializer is immutable; one value may serialize concurrently.
type Serializer struct {
	Templates *Templates
	Mode      Mode
}

// NewSerializer returns a literal-mode serializer. A nil dialect selects HQL.
func NewSerializer(t *Templates) *Serializer {
	if t == nil {
		t = HQL
	}
	return &Serializer{Templates: t}
}

// WithMode returns a copy using mode.
func (s *Serializer) WithMode(mode Mode) *Serializer {
	c := *s
	c.Mode = mode
	return &c
}

// Serialize renders e with constants inlined, whatever the Mode.
func (s *Serializer) Serialize(e queryir.Expr) (string, error) {
	w := s.writer(ModeLiterals)
	text, _, err := w.expr(e)
	return text, err
}

// SerializeParams renders e honouring the Mode.
func (s *Serializer) SerializeParams(e queryir.Expr) (string, []any, error) {
	w := s.writer(s.Mode)
	text, _, err := w.expr(e)
	if err != nil {
		return "", nil, err
	}
	return text, w.params, nil
}

// SerializeQuery renders a top-level query honouring the Mode. The
// parameter list is nil in ModeLiterals.
func (s *Serializer) SerializeQuery(q *queryir.Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot serialize nil query")
	}
	w := s.writer(s.Mode)
	text, err := w.query(q)
	if err != nil {
		return "", nil, err
	}
	return text, w.params, nil
}

func (s *Serializer) writer(mode Mode) *writer {
	t := s.Templates
	if t == nil {
		t = HQL
	}
	return &writer{t: t, mode: mode}
}

// writer holds the state of one serialization call.
type writer struct {
	t      *Templates
	mode   Mode
	params []any
}

// expr renders e and returns the precedence of the rendered text.
func (w *writer) expr(e queryir.Expr) (string, int, error) {
	switch n := e.(type) {
	case *queryir.Constant:
		s, err := w.constant(n.Value)
		if strings.HasPrefix(s, "-") {
			return s, PrecUnary, err
		}
		return s, PrecAtom, err
	case *queryir.Path:
		s, err := w.t.Path(n)
		return s, PrecAtom, err
	case *queryir.Operation:
		return w.operation(n)
	case *queryir.Alias:
		src, _, err := w.expr(n.Source)
		if err != nil {
			return "", 0, err
		}
		return src + " as " + n.To, 0, nil
	case *queryir.SubQuery:
		s, err := w.subQuery(n)
		return s, PrecAtom, err
	case *queryir.Projection:
		s, err := w.list(n.Args)
		return s, 0, err
	case *queryir.Conversion:
		return w.expr(n.Source)
	case nil:
		return "", 0, fmt.Errorf("serialize: nil expression")
	default:
		return "", 0, fmt.Errorf("serialize: unsupported node %T", e)
	}
}

func (w *writer) constant(v any) (string, error) {
	if w.mode == ModeLiterals || v == nil {
		return w.t.Literal(v)
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		marks := make([]string, rv.Len())
		for i := range marks {
			marks[i] = w.param(rv.Index(i).Interface())
		}
		return "(" + strings.Join(marks, ", ") + ")", nil
	}
	return w.param(v), nil
}

func (w *writer) param(v any) string {
	w.params = append(w.params, w.t.Bind(v))
	return w.t.Placeholder(len(w.params))
}

func (w *writer) operation(o *queryir.Operation) (string, int, error) {
	tmpl, ok := w.t.Template(o.Op.ID)
	if !ok {
		return "", 0, &TemplateError{Dialect: w.t.Name, Op: o.Op.ID, Message: "no template"}
	}
	if len(o.Args) < tmpl.minArgs() {
		return "", 0, &TemplateError{Dialect: w.t.Name, Op: o.Op.ID,
			Message: fmt.Sprintf("template %q needs %d arguments, got %d", tmpl.Pattern, tmpl.minArgs(), len(o.Args))}
	}
	args := make([]string, len(o.Args))
	for i, a := range o.Args {
		s, prec, err := w.expr(a)
		if err != nil {
			return "", 0, err
		}
		if tmpl.wraps(i, prec) {
			s = "(" + s + ")"
		}
		args[i] = s
	}
	isSub := func(i int) bool {
		_, ok := o.Args[i].(*queryir.SubQuery)
		return ok
	}
	return tmpl.render(args, isSub), tmpl.Precedence, nil
}

func (w *writer) list(es []queryir.Expr) (string, error) {
	parts := make([]string, len(es))
	for i, e := range es {
		s, _, err := w.expr(e)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ", "), nil
}

// predicates renders conditions joined by "and", parenthesizing "or".
func (w *writer) predicates(es []queryir.Expr) (string, error) {
	parts := make([]string, len(es))
	for i, e := range es {
		s, prec, err := w.expr(e)
		if err != nil {
			return "", err
		}
		if prec < PrecAnd {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, " and "), nil
}

func (w *writer) subQuery(sq *queryir.SubQuery) (string, error) {
	var b strings.Builder
	proj, _, err := w.expr(sq.Projection)
	if err != nil {
		return "", err
	}
	b.WriteString("(select ")
	b.WriteString(proj)
	b.WriteString(" from ")
	for i, f := range sq.From {
		if i > 0 {
			b.WriteString(", ")
		}
		src, err := w.source(f)
		if err != nil {
			return "", err
		}
		b.WriteString(src)
	}
	if len(sq.Where) > 0 {
		where, err := w.predicates(sq.Where)
		if err != nil {
			return "", err
		}
		b.WriteString(" where ")
		b.WriteString(where)
	}
	b.WriteByte(')')
	return b.String(), nil
}

// source renders a from entry: a root entity as "Entity var", an alias of
// a root entity as "Entity to", anything else as "expr as to".
func (w *writer) source(e queryir.Expr) (string, error) {
	switch n := e.(type) {
	case *queryir.Path:
		if n.Metadata.IsRoot() {
			return entityName(n) + " " + n.Root(), nil
		}
	case *queryir.Alias:
		if p, ok := n.Source.(*queryir.Path); ok && p.Metadata.IsRoot() && p.Kind == queryir.PathEntity {
			return entityName(p) + " " + n.To, nil
		}
	}
	s, _, err := w.expr(e)
	return s, err
}

func entityName(p *queryir.Path) string {
	t := p.Type()
	if t.Kind() == ir.KindCollection {
		t = t.Elem()
	}
	return t.Name()
}

func (w *writer) query(q *queryir.Query) (string, error) {
	var b strings.Builder
	b.WriteString("select ")
	if q.Distinct {
		b.WriteString("distinct ")
	}
	proj, _, err := w.expr(q.Select)
	if err != nil {
		return "", fmt.Errorf("select: %w", err)
	}
	b.WriteString(proj)

	for i, s := range q.From {
		src, err := w.source(s.Expr)
		if err != nil {
			return "", fmt.Errorf("from: %w", err)
		}
		_, isPath := s.Expr.(*queryir.Path)
		switch {
		case i == 0:
			b.WriteString(" from ")
		case isPath && s.Join == queryir.JoinInner && s.On == nil:
			b.WriteString(", ")
		default:
			b.WriteString(" " + s.Join.String() + " ")
		}
		b.WriteString(src)
		if s.On != nil {
			on, _, err := w.expr(s.On)
			if err != nil {
				return "", fmt.Errorf("join condition: %w", err)
			}
			b.WriteString(" " + w.t.JoinCondition + " " + on)
		}
	}

	if len(q.Where) > 0 {
		where, err := w.predicates(q.Where)
		if err != nil {
			return "", fmt.Errorf("where: %w", err)
		}
		b.WriteString(" where " + where)
	}
	if len(q.GroupBy) > 0 {
		group, err := w.list(q.GroupBy)
		if err != nil {
			return "", fmt.Errorf("group by: %w", err)
		}
		b.WriteString(" group by " + group)
	}
	if len(q.Having) > 0 {
		having, err := w.predicates(q.Having)
		if err != nil {
			return "", fmt.Errorf("having: %w", err)
		}
		b.WriteString(" having " + having)
	}
	for i, o := range q.OrderBy {
		s, _, err := w.expr(o.Expr)
		if err != nil {
			return "", fmt.Errorf("order by: %w", err)
		}
		if i == 0 {
			b.WriteString(" order by ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(s)
		if o.Desc {
			b.WriteString(" desc")
		} else {
			b.WriteString(" asc")
		}
	}
	b.WriteString(w.t.Window(q.Limit, q.Offset))
	return b.String(), nil
}
