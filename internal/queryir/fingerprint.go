package queryir

import (
	"fmt"

	"github.com/roach88/pathql/internal/ir"
)

// Document returns the canonical document form of e. The shape matches the
// query document format read by package querydoc:
//
//	{"const": v, "type": t}
//	{"path": "cat.name", "type": t}
//	{"op": "EQ", "args": [...], "type": t}
//	{"alias": e, "as": name}
//	{"sub": {"select": e, "from": [...], "where": [...]}}
//	{"projection": [...]}
//	{"convert": e, "to": t}
func Document(e Expr) ir.Object {
	switch n := e.(type) {
	case nil:
		return ir.Object{"const": nil, "type": ir.Null.String()}
	case *Constant:
		return ir.Object{"const": n.Value, "type": n.Type().String()}
	case *Path:
		return ir.Object{"path": n.Metadata.String(), "type": n.DeclaredType.String()}
	case *Operation:
		return ir.Object{"op": string(n.Op.ID), "args": documents(n.Args), "type": n.DeclaredType.String()}
	case *Alias:
		return ir.Object{"alias": Document(n.Source), "as": n.To}
	case *SubQuery:
		return ir.Object{"sub": ir.Object{
			"select": Document(n.Projection),
			"from":   documents(n.From),
			"where":  documents(n.Where),
		}}
	case *Projection:
		return ir.Object{"projection": documents(n.Args)}
	case *Conversion:
		return ir.Object{"convert": Document(n.Source), "to": n.Target.String()}
	}
	panic(fmt.Sprintf("queryir: unknown expression type %T", e))
}

func documents(es []Expr) ir.Array {
	out := make(ir.Array, len(es))
	for i, e := range es {
		out[i] = Document(e)
	}
	return out
}

// QueryDocument returns the canonical document form of q.
func QueryDocument(q *Query) ir.Object {
	from := make(ir.Array, len(q.From))
	for i, s := range q.From {
		src := ir.Object{"source": Document(s.Expr)}
		if s.Join == JoinLeft {
			src["join"] = "left"
		}
		if s.On != nil {
			src["on"] = Document(s.On)
		}
		from[i] = src
	}
	order := make(ir.Array, len(q.OrderBy))
	for i, o := range q.OrderBy {
		order[i] = ir.Object{"expr": Document(o.Expr), "desc": o.Desc}
	}
	return ir.Object{
		"select":   Document(q.Select),
		"from":     from,
		"where":    documents(q.Where),
		"group_by": documents(q.GroupBy),
		"having":   documents(q.Having),
		"order_by": order,
		"distinct": q.Distinct,
		"limit":    q.Limit,
		"offset":   q.Offset,
	}
}

// Fingerprint returns a stable content hash of e. Structurally equal trees
// have equal fingerprints.
func Fingerprint(e Expr) (string, error) {
	h, err := ir.Hash(ir.DomainExpr, Document(e))
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", e, err)
	}
	return h, nil
}

// QueryFingerprint returns a stable content hash of q.
func QueryFingerprint(q *Query) (string, error) {
	h, err := ir.Hash(ir.DomainExpr, QueryDocument(q))
	if err != nil {
		return "", fmt.Errorf("fingerprint query: %w", err)
	}
	return h, nil
}
