package engine

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/queryir"
)

// Executor runs top-level queries over in-memory collections.
//
// Stages run in SQL order: join (nested loops, left joins emulated with
// LeftJoin), where, group by, having, select, distinct, order by, then
// offset and limit. An aggregate query without group by forms one group,
// even when no rows survive the filter.
//
// Thread-safety: an Executor is immutable after construction; Run may be
// called from many goroutines.
type Executor struct {
	eval    *Evaluator
	logger  *slog.Logger
	maxRows int
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger. Default discards.
func WithLogger(l *slog.Logger) Option {
	return func(x *Executor) { x.logger = l }
}

// WithMaxRows bounds the rows the join stage may produce.
//
// Default: DefaultMaxRows. Zero or less disables the bound.
func WithMaxRows(n int) Option {
	return func(x *Executor) { x.maxRows = n }
}

// NewExecutor returns an executor.
func NewExecutor(opts ...Option) *Executor {
	x := &Executor{maxRows: DefaultMaxRows}
	for _, opt := range opts {
		opt(x)
	}
	if x.logger == nil {
		x.logger = slog.New(slog.DiscardHandler)
	}
	x.eval = NewEvaluator(x.logger)
	return x
}

// Evaluator returns the underlying expression evaluator.
func (x *Executor) Evaluator() *Evaluator { return x.eval }

type resultRow struct {
	env   *Env
	value any
	order []any
}

// Run executes q over sources and returns one value per result row. A
// multi-column projection yields []any rows.
func (x *Executor) Run(q *queryir.Query, sources Sources) ([]any, error) {
	if res := queryir.ValidateQuery(q); !res.IsValid {
		return nil, fmt.Errorf("invalid query: %s", strings.Join(res.Warnings, "; "))
	}
	ev := x.eval
	rows, err := ev.bind(q.From, NewEnv(sources), newRowQuota(x.maxRows))
	if err != nil {
		return nil, fmt.Errorf("join: %w", err)
	}
	joined := len(rows)
	if rows, err = ev.filter(rows, q.Where); err != nil {
		return nil, fmt.Errorf("where: %w", err)
	}

	contexts := rows
	if q.IsAggregate() || len(q.GroupBy) > 0 {
		if contexts, err = x.group(q, rows, sources); err != nil {
			return nil, err
		}
	}

	results := make([]resultRow, 0, len(contexts))
	for _, env := range contexts {
		v, err := ev.Eval(q.Select, env)
		if err != nil {
			return nil, fmt.Errorf("select: %w", err)
		}
		results = append(results, resultRow{env: env, value: v})
	}

	if q.Distinct {
		results = distinct(results)
	}
	if len(q.OrderBy) > 0 {
		if err := x.sort(q.OrderBy, results); err != nil {
			return nil, err
		}
	}
	results = window(results, q.Offset, q.Limit)

	out := make([]any, len(results))
	for i, r := range results {
		out[i] = r.value
	}
	x.logger.Debug("query executed", "joined", joined, "filtered", len(rows), "rows", len(out))
	return out, nil
}

// group partitions rows by the group-by keys, in order of first appearance,
// and drops groups failing the having predicates.
func (x *Executor) group(q *queryir.Query, rows []*Env, sources Sources) ([]*Env, error) {
	ev := x.eval
	var order []any
	groups := map[any][]*Env{}
	if len(q.GroupBy) == 0 {
		order = []any{nil}
		groups[nil] = rows
	} else {
		for _, row := range rows {
			keyVals := make([]any, len(q.GroupBy))
			for i, g := range q.GroupBy {
				v, err := ev.Eval(g, row)
				if err != nil {
					return nil, fmt.Errorf("group by: %w", err)
				}
				keyVals[i] = v
			}
			key := ir.CompositeKey(keyVals)
			if _, seen := groups[key]; !seen {
				order = append(order, key)
			}
			groups[key] = append(groups[key], row)
		}
	}

	out := make([]*Env, 0, len(order))
	for _, key := range order {
		members := groups[key]
		rep := NewEnv(sources)
		if len(members) > 0 {
			rep = members[0]
		}
		genv := rep.withGroup(members)
		keep, err := ev.holds(q.Having, genv)
		if err != nil {
			return nil, fmt.Errorf("having: %w", err)
		}
		if keep {
			out = append(out, genv)
		}
	}
	return out, nil
}

func distinct(rows []resultRow) []resultRow {
	seen := make(map[any]struct{}, len(rows))
	out := rows[:0:0]
	for _, r := range rows {
		key := ir.Key(r.value)
		if tuple, ok := r.value.([]any); ok {
			key = ir.CompositeKey(tuple)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

// sort orders rows stably. Nulls order first ascending and last descending.
func (x *Executor) sort(specs []queryir.OrderSpec, rows []resultRow) error {
	for i := range rows {
		rows[i].order = make([]any, len(specs))
		for j, s := range specs {
			v, err := x.eval.Eval(s.Expr, rows[i].env)
			if err != nil {
				return fmt.Errorf("order by: %w", err)
			}
			rows[i].order[j] = v
		}
	}
	var cmpErr error
	slices.SortStableFunc(rows, func(a, b resultRow) int {
		for j, s := range specs {
			c, err := compareNullsFirst(a.order[j], b.order[j])
			if err != nil && cmpErr == nil {
				cmpErr = err
			}
			if s.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	if cmpErr != nil {
		return fmt.Errorf("order by: %w", cmpErr)
	}
	return nil
}

func compareNullsFirst(a, b any) (int, error) {
	switch {
	case a == nil && b == nil:
		return 0, nil
	case a == nil:
		return -1, nil
	case b == nil:
		return 1, nil
	}
	return ir.Compare(a, b)
}

func window(rows []resultRow, offset, limit int) []resultRow {
	if offset > 0 {
		if offset >= len(rows) {
			return nil
		}
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
