package dsl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/pathql/internal/ops"
	"github.com/roach88/pathql/internal/queryir"
)

// QueryBuilder assembles a queryir.Query. Methods return the receiver so
// calls chain; the first construction error is kept and reported by Build.
type QueryBuilder struct {
	q   queryir.Query
	err error
}

// Select starts a query projecting one expression, or a multi-column
// projection when several are given.
func Select(projection ...Expression) *QueryBuilder {
	b := &QueryBuilder{}
	switch len(projection) {
	case 0:
		b.err = errors.New("select: no projection")
	case 1:
		b.q.Select = projection[0].Expr()
	default:
		p, err := queryir.NewProjection(exprs(projection)...)
		b.q.Select, b.err = p, err
	}
	return b
}

// SelectDistinct is Select followed by Distinct.
func SelectDistinct(projection ...Expression) *QueryBuilder {
	return Select(projection...).Distinct()
}

// From adds root sources. Several sources form a cross product.
func (b *QueryBuilder) From(sources ...Entity) *QueryBuilder {
	for _, s := range sources {
		b.q.From = append(b.q.From, queryir.Source{Expr: s.p})
	}
	return b
}

// InnerJoin joins the collection or reference target, binding its elements to
// the root variable of as.
func (b *QueryBuilder) InnerJoin(target Expression, as Entity) *QueryBuilder {
	return b.join(queryir.JoinInner, target, as)
}

// LeftJoin is like InnerJoin but keeps left rows without a match, binding null.
func (b *QueryBuilder) LeftJoin(target Expression, as Entity) *QueryBuilder {
	return b.join(queryir.JoinLeft, target, as)
}

func (b *QueryBuilder) join(kind queryir.JoinKind, target Expression, as Entity) *QueryBuilder {
	a, err := queryir.NewAlias(target.Expr(), as.Variable())
	if err != nil {
		b.setErr(err)
		return b
	}
	b.q.From = append(b.q.From, queryir.Source{Expr: a, Join: kind})
	return b
}

// On sets the condition of the most recent join.
func (b *QueryBuilder) On(conditions ...Bool) *QueryBuilder {
	if len(b.q.From) < 2 {
		b.setErr(errors.New("on: no join to attach to"))
		return b
	}
	if len(conditions) == 0 {
		return b
	}
	b.q.From[len(b.q.From)-1].On = AllOf(conditions[0], conditions[1:]...).e
	return b
}

// Where adds filter predicates, joined by AND.
func (b *QueryBuilder) Where(predicates ...Bool) *QueryBuilder {
	for _, p := range predicates {
		b.q.Where = append(b.q.Where, p.e)
	}
	return b
}

// GroupBy adds grouping expressions.
func (b *QueryBuilder) GroupBy(keys ...Expression) *QueryBuilder {
	b.q.GroupBy = append(b.q.GroupBy, exprs(keys)...)
	return b
}

// Having adds group filter predicates.
func (b *QueryBuilder) Having(predicates ...Bool) *QueryBuilder {
	for _, p := range predicates {
		b.q.Having = append(b.q.Having, p.e)
	}
	return b
}

// OrderBy adds ordering entries.
func (b *QueryBuilder) OrderBy(orders ...Order) *QueryBuilder {
	for _, o := range orders {
		b.q.OrderBy = append(b.q.OrderBy, queryir.OrderSpec{Expr: o.e.Expr(), Desc: o.desc})
	}
	return b
}

// Distinct removes duplicate result rows.
func (b *QueryBuilder) Distinct() *QueryBuilder {
	b.q.Distinct = true
	return b
}

// Limit caps the number of rows. Zero means unlimited.
func (b *QueryBuilder) Limit(n int) *QueryBuilder {
	b.q.Limit = n
	return b
}

// Offset skips leading rows.
func (b *QueryBuilder) Offset(n int) *QueryBuilder {
	b.q.Offset = n
	return b
}

func (b *QueryBuilder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build returns the query after validating it.
func (b *QueryBuilder) Build() (*queryir.Query, error) {
	if b.err != nil {
		return nil, fmt.Errorf("build query: %w", b.err)
	}
	q := b.q
	if res := queryir.ValidateQuery(&q); !res.IsValid {
		return nil, fmt.Errorf("build query: %s", strings.Join(res.Warnings, "; "))
	}
	return &q, nil
}

// MustBuild is like Build but panics on error.
func (b *QueryBuilder) MustBuild() *queryir.Query {
	q, err := b.Build()
	if err != nil {
		panic(err)
	}
	return q
}

// Sub is a correlated or uncorrelated sub-query.
type Sub struct{ s *queryir.SubQuery }

// Expr returns the sub-query node.
func (s Sub) Expr() queryir.Expr { return s.s }

// Exists tests that the sub-query yields at least one row.
func (s Sub) Exists() Bool { return Bool{operation(ops.Exists, s.s)} }

// NotExists tests that the sub-query yields no rows.
func (s Sub) NotExists() Bool { return s.Exists().Not() }

// SubQuery builds "(select projection from sources where predicates)".
// Sources are root entities or aliases of joined collections.
func SubQuery(projection Expression, from []Expression, where ...Bool) (Sub, error) {
	preds := make([]queryir.Expr, len(where))
	for i, w := range where {
		preds[i] = w.e
	}
	s, err := queryir.NewSubQuery(projection.Expr(), exprs(from), preds...)
	if err != nil {
		return Sub{}, err
	}
	return Sub{s}, nil
}

// MustSubQuery is like SubQuery but panics on error.
func MustSubQuery(projection Expression, from []Expression, where ...Bool) Sub {
	s, err := SubQuery(projection, from, where...)
	if err != nil {
		panic(err)
	}
	return s
}

// Sources is a convenience for the from argument of SubQuery.
func Sources(es ...Expression) []Expression { return es }
