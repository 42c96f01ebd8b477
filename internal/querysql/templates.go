package querysql

import (
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/roach88/pathql/internal/ops"
	"github.com/roach88/pathql/internal/queryir"
)

// Templates is the configuration table of one dialect: an operator → template
// map plus the literal, placeholder and path conventions of the language.
//
// A Templates value is read-only once registered; use Clone and Set to
// derive a variant.
type Templates struct {
	Name string

	// Literal encodes a constant.
	Literal func(v any) (string, error)

	// Placeholder renders the n-th (1-based) parameter marker.
	Placeholder func(n int) string

	// Bind converts a constant into the value handed to the driver.
	Bind func(v any) any

	// Path renders a path node.
	Path func(p *queryir.Path) (string, error)

	// JoinCondition introduces a join condition ("with", "on").
	JoinCondition string

	// Window renders limit and offset; both zero renders nothing.
	Window func(limit, offset int) string

	ops map[ops.ID]*Template
}

// NewTemplates returns a dialect with the given operator table. Unset hooks
// fall back to the HQL conventions.
func NewTemplates(name string, table map[ops.ID]*Template) *Templates {
	t := &Templates{
		Name:          name,
		Placeholder:   func(n int) string { return fmt.Sprintf("?%d", n) },
		Bind:          func(v any) any { return v },
		Path:          func(p *queryir.Path) (string, error) { return p.String(), nil },
		JoinCondition: "with",
		Window:        window,
		ops:           make(map[ops.ID]*Template, len(table)),
	}
	t.Literal = func(v any) (string, error) { return hqlLiteral(t.Name, v) }
	for id, tmpl := range table {
		t.ops[id] = tmpl
	}
	return t
}

// Template returns the template registered for id.
func (t *Templates) Template(id ops.ID) (*Template, bool) {
	tmpl, ok := t.ops[id]
	return tmpl, ok
}

// Set registers tmpl for id. Call it only on a Templates no serializer uses
// yet, typically a fresh Clone.
func (t *Templates) Set(id ops.ID, tmpl *Template) {
	t.ops[id] = tmpl
}

// Clone returns a copy whose table may be changed independently.
func (t *Templates) Clone(name string) *Templates {
	c := *t
	c.Name = name
	c.ops = maps.Clone(t.ops)
	return &c
}

// Missing lists the catalogue operators without a template, sorted.
func (t *Templates) Missing() []ops.ID {
	var out []ops.ID
	for _, op := range ops.All() {
		if _, ok := t.ops[op.ID]; !ok {
			out = append(out, op.ID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func window(limit, offset int) string {
	var b strings.Builder
	if limit > 0 {
		fmt.Fprintf(&b, " limit %d", limit)
	}
	if offset > 0 {
		fmt.Fprintf(&b, " offset %d", offset)
	}
	return b.String()
}

// Dialect registry
var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]*Templates)
)

// Register adds a dialect to the registry under its lower-cased name.
func Register(t *Templates) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(t.Name)] = t
}

// Dialect returns a registered dialect by name, case-insensitively.
func Dialect(name string) (*Templates, error) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	t, ok := dialects[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q (known: %s)", name, strings.Join(dialectNames(), ", "))
	}
	return t, nil
}

// Dialects returns the registered dialect names, sorted.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	return dialectNames()
}

func dialectNames() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(HQL)
	Register(SQLite)
}
