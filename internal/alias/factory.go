package alias

import (
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"sync"
	"weak"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/roach88/pathql/internal/queryir"
	"github.com/roach88/pathql/internal/schema"
)

// node is the shared, immutable part of a stand-in.
type node struct {
	entity *schema.Entity
	path   *queryir.Path
}

type rootKey struct {
	entity   *schema.Entity
	variable string
}

// Factory holds the caches shared by every session.
type Factory struct {
	registry *schema.Registry
	logger   *slog.Logger

	roots sync.Map // rootKey → *node
	group singleflight.Group

	mu      sync.Mutex
	reverse map[weak.Pointer[StandIn]]*queryir.Path
}

// Option configures a Factory.
type Option func(*Factory)

// WithRegistry resolves nested entities by name through reg before falling
// back to the Go field type.
func WithRegistry(reg *schema.Registry) Option {
	return func(f *Factory) { f.registry = reg }
}

// WithLogger logs session and navigation events to l.
func WithLogger(l *slog.Logger) Option {
	return func(f *Factory) { f.logger = l }
}

// NewFactory returns an empty factory.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		logger:  slog.New(slog.DiscardHandler),
		reverse: make(map[weak.Pointer[StandIn]]*queryir.Path),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewSession opens an independent capture session.
func (f *Factory) NewSession() *Session {
	s := &Session{
		ID:      uuid.New(),
		factory: f,
		roots:   make(map[rootKey]*StandIn),
	}
	f.logger.Debug("alias session opened", "session", s.ID)
	return s
}

// root returns the shared root node for key.
//
// CRITICAL: concurrent first access must yield one winner. singleflight
// collapses racing callers and LoadOrStore settles any race that slips past
// a finished flight.
func (f *Factory) root(key rootKey) *node {
	if n, ok := f.roots.Load(key); ok {
		return n.(*node)
	}
	flight := fmt.Sprintf("%p\x00%s", key.entity, key.variable)
	v, _, _ := f.group.Do(flight, func() (any, error) {
		n := &node{entity: key.entity, path: key.entity.Variable(key.variable)}
		actual, _ := f.roots.LoadOrStore(key, n)
		return actual, nil
	})
	return v.(*node)
}

// track records the back-reference of a newly issued stand-in.
func (f *Factory) track(s *StandIn) {
	wp := weak.Make(s)
	f.mu.Lock()
	f.reverse[wp] = s.node.path
	f.mu.Unlock()
	runtime.AddCleanup(s, f.forget, wp)
}

func (f *Factory) forget(wp weak.Pointer[StandIn]) {
	f.mu.Lock()
	delete(f.reverse, wp)
	f.mu.Unlock()
}

// PathForAlias returns the path bound to a stand-in issued by this factory.
// Lookup is by identity: an equal stand-in from another call does not match.
func (f *Factory) PathForAlias(s *StandIn) (queryir.Expr, bool) {
	if s == nil {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.reverse[weak.Make(s)]
	if !ok {
		return nil, false
	}
	return p, true
}

// Tracked returns the number of live back-references.
func (f *Factory) Tracked() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reverse)
}

// resolve finds the descriptor of a nested entity property.
func (f *Factory) resolve(parent *schema.Entity, p schema.Property) (*schema.Entity, error) {
	name := p.Type.Name()
	if f.registry != nil {
		if e, ok := f.registry.Lookup(name); ok {
			return e, nil
		}
	}
	if parent.GoType == nil || p.Index == nil {
		return nil, fmt.Errorf("entity %s is not registered", name)
	}
	ft := parent.GoType.FieldByIndex(p.Index).Type
	for {
		switch ft.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
			ft = ft.Elem()
			continue
		}
		break
	}
	return schema.FromType(ft)
}
