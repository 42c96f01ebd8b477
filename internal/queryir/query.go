package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/pathql/internal/ir"
)

// JoinKind selects join semantics for a query source.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
)

func (k JoinKind) String() string {
	if k == JoinLeft {
		return "left join"
	}
	return "inner join"
}

// Source is one entry of a query's from list.
//
// The first source is a root entity path (e.g. "cat"). Later sources are
// either further root paths (cross join) or an Alias over a collection path
// of an earlier source ("cat.kittens as kitten").
type Source struct {
	Expr Expr
	Join JoinKind
	On   Expr // optional join condition
}

// OrderSpec orders query results by one expression.
type OrderSpec struct {
	Expr Expr
	Desc bool
}

// Query is a complete top-level query.
type Query struct {
	Select   Expr
	From     []Source
	Where    []Expr
	GroupBy  []Expr
	Having   []Expr
	OrderBy  []OrderSpec
	Distinct bool
	Limit    int // 0 means unlimited
	Offset   int
}

// Variable returns the variable a source binds: the root name of a path or
// the target of an alias.
func (s Source) Variable() string {
	switch e := s.Expr.(type) {
	case *Path:
		if e.Metadata.IsRoot() {
			return e.Metadata.Name()
		}
	case *Alias:
		return e.To
	}
	return ""
}

// ElementType returns the type of the values a source binds.
func (s Source) ElementType() *ir.Type {
	t := s.Expr.Type()
	if t.Kind() == ir.KindCollection {
		return t.Elem()
	}
	return t
}

// IsAggregate reports whether the projection contains an aggregate operation
// outside any sub-query.
func (q *Query) IsAggregate() bool {
	found := false
	Walk(q.Select, func(e Expr) bool {
		switch n := e.(type) {
		case *SubQuery:
			return false
		case *Operation:
			if n.Op.IsAggregate() {
				found = true
			}
		}
		return !found
	})
	return found
}

func (q *Query) String() string {
	var b strings.Builder
	b.WriteString("select ")
	if q.Distinct {
		b.WriteString("distinct ")
	}
	b.WriteString(exprString(q.Select))
	for i, s := range q.From {
		if i == 0 {
			b.WriteString(" from ")
		} else {
			fmt.Fprintf(&b, " %s ", s.Join)
		}
		b.WriteString(exprString(s.Expr))
		if s.On != nil {
			b.WriteString(" on ")
			b.WriteString(s.On.String())
		}
	}
	if len(q.Where) > 0 {
		b.WriteString(" where ")
		b.WriteString(joinExprs(q.Where, " and "))
	}
	if len(q.GroupBy) > 0 {
		b.WriteString(" group by ")
		b.WriteString(joinExprs(q.GroupBy, ", "))
	}
	if len(q.Having) > 0 {
		b.WriteString(" having ")
		b.WriteString(joinExprs(q.Having, " and "))
	}
	for i, o := range q.OrderBy {
		if i == 0 {
			b.WriteString(" order by ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(exprString(o.Expr))
		if o.Desc {
			b.WriteString(" desc")
		} else {
			b.WriteString(" asc")
		}
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " limit %d", q.Limit)
	}
	if q.Offset > 0 {
		fmt.Fprintf(&b, " offset %d", q.Offset)
	}
	return b.String()
}
