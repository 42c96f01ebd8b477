package engine

import (
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/roach88/pathql/internal/convert"
	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/ops"
	"github.com/roach88/pathql/internal/queryir"
)

// Evaluator computes expression trees directly over in-memory values.
//
// Null handling follows SQL: comparisons, arithmetic and string functions
// over null yield null; AND and OR use three-valued logic; filters keep
// only rows whose predicate is exactly true.
//
// An Evaluator holds no mutable state and may be used concurrently.
type Evaluator struct {
	logger *slog.Logger
}

// NewEvaluator returns an evaluator logging to logger (nil discards).
func NewEvaluator(logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Evaluator{logger: logger}
}

// Eval evaluates e in env.
func (ev *Evaluator) Eval(e queryir.Expr, env *Env) (any, error) {
	switch n := e.(type) {
	case *queryir.Constant:
		return n.Value, nil
	case *queryir.Path:
		return ev.path(n, env)
	case *queryir.Operation:
		return ev.operation(n, env)
	case *queryir.Alias:
		return ev.Eval(n.Source, env)
	case *queryir.SubQuery:
		return ev.subQuery(n, env)
	case *queryir.Projection:
		row := make([]any, len(n.Args))
		for i, a := range n.Args {
			v, err := ev.Eval(a, env)
			if err != nil {
				return nil, err
			}
			row[i] = v
		}
		return row, nil
	case *queryir.Conversion:
		v, err := ev.Eval(n.Source, env)
		if err != nil {
			return nil, err
		}
		out, err := convert.Narrow(v, n.Target)
		if err != nil {
			return nil, &EvalError{Operand: n.String(), Err: err}
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("eval: nil expression")
	default:
		return nil, fmt.Errorf("eval: unsupported node %T", e)
	}
}

func (ev *Evaluator) path(p *queryir.Path, env *Env) (any, error) {
	chain := p.Metadata.Chain()
	root := chain[len(chain)-1]
	cur, ok := env.Lookup(root.Name())
	if !ok {
		return nil, &EvalError{Operand: root.Name(), Err: ErrUnboundVariable}
	}
	for i := len(chain) - 2; i >= 0; i-- {
		if cur == nil {
			return nil, nil
		}
		md := chain[i]
		var err error
		switch md.Kind() {
		case queryir.MetadataProperty:
			cur, err = Get(cur, md.Name())
		case queryir.MetadataListAccess:
			idx, _ := md.Index()
			elems, ok := Elements(cur)
			switch {
			case !ok:
				err = &EvalError{Operand: md.String(), Err: ErrOperandType}
			case idx < 0 || idx >= len(elems):
				cur = nil
			default:
				cur = elems[idx]
			}
		case queryir.MetadataMapAccess:
			key, _ := md.Key()
			cur, err = mapValue(cur, key)
		}
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func mapValue(m any, key any) (any, error) {
	if m == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Map {
		return nil, &EvalError{Operand: fmt.Sprintf("%T[%v]", m, key), Err: ErrOperandType}
	}
	kv := reflect.ValueOf(key)
	if !kv.IsValid() || !kv.Type().ConvertibleTo(rv.Type().Key()) {
		return nil, nil
	}
	return plain(rv.MapIndex(kv.Convert(rv.Type().Key()))), nil
}

func (ev *Evaluator) operation(o *queryir.Operation, env *Env) (any, error) {
	op := o.Op
	if op.IsAggregate() {
		return ev.aggregate(o, env)
	}
	switch op.ID {
	case ops.And, ops.Or:
		return ev.logical(o, env)
	case ops.Coalesce:
		for _, a := range o.Args {
			v, err := ev.Eval(a, env)
			if err != nil || v != nil {
				return v, err
			}
		}
		return nil, nil
	}

	vals := make([]any, len(o.Args))
	for i, a := range o.Args {
		v, err := ev.Eval(a, env)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return apply(op, vals)
}

// logical evaluates AND / OR with three-valued logic, stopping at the first
// deciding operand.
func (ev *Evaluator) logical(o *queryir.Operation, env *Env) (any, error) {
	decide := o.Op.ID == ops.Or // OR stops at true, AND at false
	sawNull := false
	for _, a := range o.Args {
		v, err := ev.Eval(a, env)
		if err != nil {
			return nil, err
		}
		switch b := v.(type) {
		case nil:
			sawNull = true
		case bool:
			if b == decide {
				return decide, nil
			}
		default:
			return nil, evalErr(o.Op.ID, v, ErrOperandType)
		}
	}
	if sawNull {
		return nil, nil
	}
	return !decide, nil
}

func (ev *Evaluator) aggregate(o *queryir.Operation, env *Env) (any, error) {
	id := o.Op.ID
	if !env.grouped {
		if len(o.Args) == 0 {
			return nil, evalErr(id, "", fmt.Errorf("%w: aggregate outside a group", ErrOperandType))
		}
		v, err := ev.Eval(o.Args[0], env)
		if err != nil {
			return nil, err
		}
		elems, ok := Elements(v)
		if !ok {
			return nil, evalErr(id, v, fmt.Errorf("%w: not a sequence", ErrOperandType))
		}
		return Aggregate(id, elems)
	}

	if id == ops.CountAll {
		return int64(len(env.group)), nil
	}
	values := make([]any, 0, len(env.group))
	for _, row := range env.group {
		v, err := ev.Eval(o.Args[0], row)
		if err != nil {
			return nil, err
		}
		if v != nil {
			values = append(values, v)
		}
	}
	if len(values) == 0 && !o.Op.IsCount() {
		return nil, nil
	}
	return Aggregate(id, values)
}

func (ev *Evaluator) subQuery(s *queryir.SubQuery, env *Env) (any, error) {
	sources := make([]queryir.Source, len(s.From))
	for i, f := range s.From {
		sources[i] = queryir.Source{Expr: f}
	}
	rows, err := ev.bind(sources, env, nil)
	if err != nil {
		return nil, err
	}
	rows, err = ev.filter(rows, s.Where)
	if err != nil {
		return nil, err
	}
	q := queryir.Query{Select: s.Projection}
	if q.IsAggregate() {
		v, err := ev.Eval(s.Projection, env.withGroup(rows))
		if err != nil {
			return nil, err
		}
		return []any{v}, nil
	}
	out := make([]any, len(rows))
	for i, row := range rows {
		if out[i], err = ev.Eval(s.Projection, row); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// bind expands sources into rows: each source binds its variable to every
// element it yields for each row bound so far.
func (ev *Evaluator) bind(from []queryir.Source, env *Env, quota *rowQuota) ([]*Env, error) {
	rows := []*Env{env}
	for i, s := range from {
		variable := s.Variable()
		if variable == "" {
			return nil, fmt.Errorf("source %d (%v) binds no variable", i, s.Expr)
		}
		var next []*Env
		for _, row := range rows {
			elems, err := ev.sourceElements(s.Expr, row)
			if err != nil {
				return nil, fmt.Errorf("source %s: %w", variable, err)
			}
			if s.On != nil {
				if elems, err = ev.matching(elems, variable, s.On, row); err != nil {
					return nil, fmt.Errorf("join %s: %w", variable, err)
				}
			}
			if s.Join == queryir.JoinLeft {
				elems = LeftJoin(elems)
			}
			for _, el := range elems {
				if err := quota.Check(); err != nil {
					return nil, err
				}
				next = append(next, row.Bind(variable, el))
			}
		}
		rows = next
	}
	return rows, nil
}

func (ev *Evaluator) matching(elems []any, variable string, on queryir.Expr, row *Env) ([]any, error) {
	var out []any
	for _, el := range elems {
		v, err := ev.Eval(on, row.Bind(variable, el))
		if err != nil {
			return nil, err
		}
		if v == true {
			out = append(out, el)
		}
	}
	return out, nil
}

func (ev *Evaluator) sourceElements(e queryir.Expr, row *Env) ([]any, error) {
	switch x := e.(type) {
	case *queryir.Path:
		if x.Metadata.IsRoot() {
			return ev.entitySource(x, row), nil
		}
	case *queryir.Alias:
		if p, ok := x.Source.(*queryir.Path); ok && p.Metadata.IsRoot() && p.Kind == queryir.PathEntity {
			if _, bound := row.Lookup(p.Root()); !bound {
				return ev.entitySource(p, row), nil
			}
		}
		v, err := ev.Eval(x.Source, row)
		if err != nil {
			return nil, err
		}
		if elems, ok := Elements(v); ok {
			return elems, nil
		}
		return []any{v}, nil
	}
	return nil, fmt.Errorf("unsupported source %v", e)
}

func (ev *Evaluator) entitySource(p *queryir.Path, row *Env) []any {
	name := p.Type().Name()
	src, ok := row.sources[name]
	if !ok {
		ev.logger.Debug("no source collection", "entity", name)
	}
	return src
}

func (ev *Evaluator) filter(rows []*Env, predicates []queryir.Expr) ([]*Env, error) {
	if len(predicates) == 0 {
		return rows, nil
	}
	out := rows[:0:0]
	for _, row := range rows {
		keep, err := ev.holds(predicates, row)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, row)
		}
	}
	return out, nil
}

// holds reports whether every predicate is exactly true in env.
func (ev *Evaluator) holds(predicates []queryir.Expr, env *Env) (bool, error) {
	for _, p := range predicates {
		v, err := ev.Eval(p, env)
		if err != nil {
			return false, err
		}
		if v != true {
			return false, nil
		}
	}
	return true, nil
}

// apply evaluates a non-aggregate operator over evaluated arguments.
func apply(op ops.Operator, vals []any) (any, error) {
	id := op.ID
	switch op.Category {
	case ops.CategoryBoolean:
		if id == ops.Not {
			if vals[0] == nil {
				return nil, nil
			}
			b, ok := vals[0].(bool)
			if !ok {
				return nil, evalErr(id, vals[0], ErrOperandType)
			}
			return !b, nil
		}
	case ops.CategoryComparison:
		return compare(id, vals)
	case ops.CategoryString:
		return stringFn(id, vals)
	case ops.CategoryMath:
		if len(vals) == 1 {
			return Unary(id, vals[0])
		}
		return Arithmetic(id, vals[0], vals[1])
	case ops.CategoryDateTime:
		if vals[0] == nil {
			return nil, nil
		}
		t, ok := vals[0].(time.Time)
		if !ok {
			return nil, evalErr(id, vals[0], ErrOperandType)
		}
		return DateField(id, t)
	case ops.CategoryCollection:
		return collectionFn(id, vals)
	case ops.CategoryNull:
		if id == ops.NullIf {
			return NullIf(vals[0], vals[1]), nil
		}
		return Coalesce(vals...), nil
	case ops.CategorySubQuery:
		elems, ok := Elements(vals[0])
		if !ok {
			return nil, evalErr(id, vals[0], ErrOperandType)
		}
		return len(elems) > 0, nil
	}
	return nil, evalErr(id, fmt.Sprint(vals...), ErrUnknownOperator)
}

func compare(id ops.ID, vals []any) (any, error) {
	switch id {
	case ops.IsNull:
		return vals[0] == nil, nil
	case ops.IsNotNull:
		return vals[0] != nil, nil
	case ops.In, ops.NotIn:
		if vals[0] == nil {
			return nil, nil
		}
		found := false
		for _, c := range candidates(vals[1:]) {
			if ir.Equal(vals[0], c) {
				found = true
				break
			}
		}
		return found == (id == ops.In), nil
	}
	for _, v := range vals {
		if v == nil {
			return nil, nil
		}
	}
	switch id {
	case ops.Eq:
		return ir.Equal(vals[0], vals[1]), nil
	case ops.Ne:
		return !ir.Equal(vals[0], vals[1]), nil
	case ops.Between:
		lo, err := ir.Compare(vals[0], vals[1])
		if err != nil {
			return nil, evalErr(id, vals[0], fmt.Errorf("%w: %v", ErrOperandType, err))
		}
		hi, err := ir.Compare(vals[0], vals[2])
		if err != nil {
			return nil, evalErr(id, vals[0], fmt.Errorf("%w: %v", ErrOperandType, err))
		}
		return lo >= 0 && hi <= 0, nil
	}
	c, err := ir.Compare(vals[0], vals[1])
	if err != nil {
		return nil, evalErr(id, vals[0], fmt.Errorf("%w: %v", ErrOperandType, err))
	}
	switch id {
	case ops.Lt:
		return c < 0, nil
	case ops.Gt:
		return c > 0, nil
	case ops.Loe:
		return c <= 0, nil
	case ops.Goe:
		return c >= 0, nil
	}
	return nil, evalErr(id, vals[0], ErrUnknownOperator)
}

// candidates flattens an IN list. A single collection-valued argument, such
// as a sub-query result, is a membership set of its own.
func candidates(args []any) []any {
	if len(args) == 1 {
		if _, isString := args[0].(string); !isString {
			if elems, ok := Elements(args[0]); ok {
				return elems
			}
		}
	}
	return args
}

func collectionFn(id ops.ID, vals []any) (any, error) {
	if vals[0] == nil {
		return nil, nil
	}
	switch id {
	case ops.MapSize, ops.MapContainsKey:
		rv := reflect.ValueOf(vals[0])
		if rv.Kind() != reflect.Map {
			return nil, evalErr(id, vals[0], ErrOperandType)
		}
		if id == ops.MapSize {
			return int32(rv.Len()), nil
		}
		kv := reflect.ValueOf(vals[1])
		if !kv.IsValid() || !kv.Type().ConvertibleTo(rv.Type().Key()) {
			return false, nil
		}
		return rv.MapIndex(kv.Convert(rv.Type().Key())).IsValid(), nil
	}
	elems, ok := Elements(vals[0])
	if !ok {
		return nil, evalErr(id, vals[0], ErrOperandType)
	}
	switch id {
	case ops.ColSize:
		return int32(len(elems)), nil
	case ops.ColIsEmpty:
		return len(elems) == 0, nil
	case ops.ColContains:
		for _, el := range elems {
			if ir.Equal(el, vals[1]) {
				return true, nil
			}
		}
		return false, nil
	}
	return nil, evalErr(id, vals[0], ErrUnknownOperator)
}
