package queryir

import "slices"

// Children returns the direct sub-expressions of e in argument order.
func Children(e Expr) []Expr {
	switch n := e.(type) {
	case *Operation:
		return n.Args
	case *Alias:
		return []Expr{n.Source}
	case *SubQuery:
		out := make([]Expr, 0, 1+len(n.From)+len(n.Where))
		out = append(out, n.Projection)
		out = append(out, n.From...)
		return append(out, n.Where...)
	case *Projection:
		return n.Args
	case *Conversion:
		return []Expr{n.Source}
	}
	return nil
}

// Walk visits e and its descendants in pre-order. Returning false from fn
// skips the children of the current node.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range Children(e) {
		Walk(c, fn)
	}
}

// Transform rebuilds e bottom-up. fn receives each node after its children
// have been transformed and returns the replacement (or the node itself).
// Unchanged subtrees are returned as-is; e is never mutated.
func Transform(e Expr, fn func(Expr) Expr) Expr {
	if e == nil {
		return nil
	}
	return fn(rebuild(e, func(c Expr) Expr { return Transform(c, fn) }))
}

func rebuild(e Expr, f func(Expr) Expr) Expr {
	switch n := e.(type) {
	case *Operation:
		if args, changed := mapExprs(n.Args, f); changed {
			return &Operation{Op: n.Op, Args: args, DeclaredType: n.DeclaredType}
		}
	case *Alias:
		if src := f(n.Source); src != n.Source {
			return &Alias{Source: src, To: n.To}
		}
	case *SubQuery:
		proj := f(n.Projection)
		from, fromChanged := mapExprs(n.From, f)
		where, whereChanged := mapExprs(n.Where, f)
		if proj != n.Projection || fromChanged || whereChanged {
			return &SubQuery{Projection: proj, From: from, Where: where}
		}
	case *Projection:
		if args, changed := mapExprs(n.Args, f); changed {
			return &Projection{Args: args}
		}
	case *Conversion:
		if src := f(n.Source); src != n.Source {
			return &Conversion{Source: src, Target: n.Target}
		}
	}
	return e
}

func mapExprs(in []Expr, f func(Expr) Expr) ([]Expr, bool) {
	out := slices.Clone(in)
	changed := false
	for i, e := range in {
		out[i] = f(e)
		if out[i] != e {
			changed = true
		}
	}
	return out, changed
}
