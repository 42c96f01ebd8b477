package alias

import (
	"github.com/google/uuid"

	"github.com/roach88/pathql/internal/queryir"
	"github.com/roach88/pathql/internal/schema"
)

// Session is one caller's capture sequence.
type Session struct {
	ID uuid.UUID

	factory *Factory
	roots   map[rootKey]*StandIn
	current *queryir.Path
}

// Factory returns the factory that opened the session.
func (s *Session) Factory() *Factory { return s.factory }

// CreateRootAlias returns the stand-in for entity bound to the root variable.
// Repeated calls with the same arguments return the same stand-in.
func (s *Session) CreateRootAlias(entity *schema.Entity, variable string) *StandIn {
	key := rootKey{entity: entity, variable: variable}
	if si, ok := s.roots[key]; ok {
		return si
	}
	si := s.issue(s.factory.root(key))
	s.roots[key] = si
	return si
}

// CreateChildAlias returns a stand-in for entity bound to an existing,
// usually non-root, path.
func (s *Session) CreateChildAlias(entity *schema.Entity, path *queryir.Path) *StandIn {
	return s.issue(&node{entity: entity, path: path})
}

func (s *Session) issue(n *node) *StandIn {
	si := &StandIn{node: n, session: s}
	s.factory.track(si)
	return si
}

// HasCurrent reports whether a terminal path was captured since the last
// Reset.
func (s *Session) HasCurrent() bool { return s.current != nil }

// Current returns the most recently captured terminal path, or nil.
func (s *Session) Current() *queryir.Path { return s.current }

// Reset clears the current slot.
func (s *Session) Reset() { s.current = nil }

// Take returns the current path and clears the slot.
func (s *Session) Take() (*queryir.Path, bool) {
	p := s.current
	s.current = nil
	return p, p != nil
}

// Resolve turns the result of a navigation into an expression: stand-ins map
// to their bound path, paths to themselves, anything else to the current
// slot.
func (s *Session) Resolve(v any) (queryir.Expr, bool) {
	switch x := v.(type) {
	case *StandIn:
		return s.factory.PathForAlias(x)
	case *queryir.Path:
		return x, true
	}
	if s.current == nil {
		return nil, false
	}
	return s.current, true
}
