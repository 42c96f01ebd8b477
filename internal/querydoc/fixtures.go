package querydoc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/schema"
)

// Fixtures are in-memory source collections keyed by entity name. Rows are
// maps keyed by property name.
type Fixtures map[string][]any

// Entities returns the fixture entity names, sorted.
func (f Fixtures) Entities() []string {
	out := make([]string, 0, len(f))
	for name := range f {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// ParseFixtures reads a YAML mapping of entity name to row list and coerces
// every row against its registered entity. Properties absent from a row are
// null; unknown properties are errors.
//
//	Cat:
//	  - {id: 1, name: Bob, birthdate: 2020-01-05}
func ParseFixtures(r io.Reader, reg *schema.Registry) (Fixtures, error) {
	var raw map[string][]map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	out := make(Fixtures, len(raw))
	for _, name := range ir.SortedKeys(raw) {
		e, ok := reg.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("fixtures: unknown entity %q", name)
		}
		rows := make([]any, len(raw[name]))
		for i, row := range raw[name] {
			r, err := coerceRow(row, e, reg)
			if err != nil {
				return nil, fmt.Errorf("fixtures: %s[%d]: %w", name, i, err)
			}
			rows[i] = r
		}
		out[name] = rows
	}
	return out, nil
}

// LoadFixtures reads the fixtures file at path.
func LoadFixtures(path string, reg *schema.Registry) (Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures file: %w", err)
	}
	return ParseFixtures(bytes.NewReader(data), reg)
}

func coerceRow(row map[string]any, e *schema.Entity, reg *schema.Registry) (map[string]any, error) {
	for k := range row {
		if _, ok := e.Property(k); !ok {
			return nil, fmt.Errorf("entity %s has no property %q", e.Name, k)
		}
	}
	out := make(map[string]any, len(e.Properties))
	for _, p := range e.Properties {
		v, err := coerceProperty(row[p.Name], p.Type, reg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name, err)
		}
		out[p.Name] = v
	}
	return out, nil
}

func coerceProperty(v any, t *ir.Type, reg *schema.Registry) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t.Kind() {
	case ir.KindEntity:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected a mapping for %s, got %T", t, v)
		}
		e, ok := reg.Lookup(t.Name())
		if !ok {
			return m, nil
		}
		return coerceRow(m, e, reg)
	case ir.KindCollection:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("expected a list for %s, got %T", t, v)
		}
		out := make([]any, len(items))
		for i, item := range items {
			c, err := coerceProperty(item, t.Elem(), reg)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = c
		}
		return out, nil
	case ir.KindMap:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected a mapping for %s, got %T", t, v)
		}
		out := make(map[string]any, len(m))
		for k, item := range m {
			c, err := coerceProperty(item, t.Elem(), reg)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out[k] = c
		}
		return out, nil
	}
	return Coerce(v, t)
}
