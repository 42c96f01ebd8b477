package engine

// Sources maps entity names to the in-memory collections queries range over.
type Sources map[string][]any

// Env is an immutable chain of variable bindings plus the source
// collections sub-queries draw from.
//
// Bind returns a new Env; the receiver is never modified, so one Env may be
// shared by many rows.
type Env struct {
	parent  *Env
	name    string
	value   any
	sources Sources

	// grouped marks an aggregate context: aggregates fold over group, other
	// expressions read the bindings of this (representative) row.
	grouped bool
	group   []*Env
}

// NewEnv returns an Env with no bindings.
func NewEnv(sources Sources) *Env {
	if sources == nil {
		sources = Sources{}
	}
	return &Env{sources: sources}
}

// Bind returns a child Env with name bound to v.
func (e *Env) Bind(name string, v any) *Env {
	return &Env{parent: e, name: name, value: v, sources: e.sources}
}

// Lookup returns the innermost binding of name.
func (e *Env) Lookup(name string) (any, bool) {
	for x := e; x != nil && x.parent != nil; x = x.parent {
		if x.name == name {
			return x.value, true
		}
	}
	return nil, false
}

// Sources returns the source collections.
func (e *Env) Sources() Sources { return e.sources }

// withGroup returns a copy of e that aggregates over rows.
func (e *Env) withGroup(rows []*Env) *Env {
	g := *e
	g.grouped = true
	g.group = rows
	return &g
}
