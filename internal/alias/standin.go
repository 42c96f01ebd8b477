package alias

import (
	"fmt"
	"slices"

	"github.com/roach88/pathql/internal/queryir"
	"github.com/roach88/pathql/internal/schema"
)

// StandIn mimics an entity so that member navigation yields paths.
// Generated typed stand-ins embed *StandIn and forward each accessor to
// Child or Field.
type StandIn struct {
	node    *node
	session *Session
}

// Path returns the bound path.
func (s *StandIn) Path() *queryir.Path { return s.node.path }

// Entity returns the entity descriptor.
func (s *StandIn) Entity() *schema.Entity { return s.node.entity }

// Session returns the owning session.
func (s *StandIn) Session() *Session { return s.session }

// unsupported builds the navigation error for member and logs it against
// the session.
func (s *StandIn) unsupported(member, reason string) *UnsupportedNavigationError {
	err := &UnsupportedNavigationError{
		Member:  member,
		Type:    s.node.entity.Name,
		Reason:  reason,
		Session: s.session.ID,
	}
	s.session.factory.logger.Debug("unsupported navigation",
		"session", s.session.ID,
		"entity", err.Type,
		"member", member,
		"reason", reason,
	)
	return err
}

func (s *StandIn) property(member string) (schema.Property, error) {
	e := s.node.entity
	if p, ok := e.Property(member); ok {
		return p, nil
	}
	for _, p := range e.Properties {
		if p.Field == member {
			return p, nil
		}
	}
	return schema.Property{}, s.unsupported(member, "")
}

// Get navigates to member. Structured members yield a *StandIn; terminal
// members yield a *queryir.Path and become the session's current expression.
func (s *StandIn) Get(member string) (any, error) {
	p, err := s.property(member)
	if err != nil {
		return nil, err
	}
	path := p.PathFrom(s.node.path)
	if p.IsTerminal() {
		s.session.current = path
		return path, nil
	}
	return s.child(p, path)
}

func (s *StandIn) child(p schema.Property, path *queryir.Path) (*StandIn, error) {
	e, err := s.session.factory.resolve(s.node.entity, p)
	if err != nil {
		return nil, s.unsupported(p.Name, err.Error())
	}
	return s.session.issue(&node{entity: e, path: path}), nil
}

// Child navigates to a structured member.
func (s *StandIn) Child(member string) (*StandIn, error) {
	v, err := s.Get(member)
	if err != nil {
		return nil, err
	}
	si, ok := v.(*StandIn)
	if !ok {
		return nil, s.unsupported(member, "member is terminal")
	}
	return si, nil
}

// Field navigates to any member and returns its path. The path becomes the
// session's current expression.
func (s *StandIn) Field(member string) (*queryir.Path, error) {
	p, err := s.property(member)
	if err != nil {
		return nil, err
	}
	path := p.PathFrom(s.node.path)
	s.session.current = path
	return path, nil
}

// Index navigates to element i of a collection member.
func (s *StandIn) Index(member string, i int) (any, error) {
	return s.element(member, fmt.Sprintf("[%d]", i), func(p *queryir.Path) *queryir.Path { return p.Element(i) },
		queryir.PathEntityCollection, queryir.PathScalarCollection)
}

// Key navigates to the value under key of a map member.
func (s *StandIn) Key(member, key string) (any, error) {
	return s.element(member, fmt.Sprintf("[%q]", key), func(p *queryir.Path) *queryir.Path { return p.Value(key) },
		queryir.PathMap)
}

func (s *StandIn) element(member, suffix string, step func(*queryir.Path) *queryir.Path, kinds ...queryir.PathKind) (any, error) {
	p, err := s.property(member)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(kinds, p.Kind) {
		return nil, s.unsupported(member+suffix, fmt.Sprintf("%s member has no elements", p.Kind))
	}
	path := step(p.PathFrom(s.node.path))
	if path.Kind != queryir.PathEntity {
		s.session.current = path
		return path, nil
	}
	elem := p
	elem.Type = path.Type()
	return s.child(elem, path)
}

// MustChild is like Child but panics on error.
func (s *StandIn) MustChild(member string) *StandIn {
	c, err := s.Child(member)
	if err != nil {
		panic(err)
	}
	return c
}

// MustField is like Field but panics on error.
func (s *StandIn) MustField(member string) *queryir.Path {
	p, err := s.Field(member)
	if err != nil {
		panic(err)
	}
	return p
}
