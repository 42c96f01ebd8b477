package querydoc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/ops"
	"github.com/roach88/pathql/internal/queryir"
	"github.com/roach88/pathql/internal/schema"
)

// Decoder turns document nodes into expression trees. A Decoder carries the
// variable bindings of one query and is not safe for concurrent use.
type Decoder struct {
	registry *schema.Registry
	vars     map[string]string // variable → entity name
}

// NewDecoder returns a decoder resolving paths against reg. A nil registry
// allows root paths only.
func NewDecoder(reg *schema.Registry) *Decoder {
	if reg == nil {
		reg = schema.NewRegistry()
	}
	return &Decoder{registry: reg, vars: map[string]string{}}
}

// Bind declares variable as ranging over entity.
func (d *Decoder) Bind(variable, entity string) error {
	if prev, ok := d.vars[variable]; ok && prev != entity {
		return fmt.Errorf("variable %q is bound to %s, not %s", variable, prev, entity)
	}
	d.vars[variable] = entity
	return nil
}

// Variables returns the bound variable names, sorted.
func (d *Decoder) Variables() []string {
	out := make([]string, 0, len(d.vars))
	for v := range d.vars {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// node keys that select the node form; the rest are attributes.
var nodeForms = []string{"const", "path", "op", "alias", "sub", "projection", "convert"}

var nodeAttrs = map[string][]string{
	"const":      {"type"},
	"path":       {"type"},
	"op":         {"args", "type"},
	"alias":      {"as"},
	"sub":        nil,
	"projection": nil,
	"convert":    {"to"},
}

// Expr decodes one node.
func (d *Decoder) Expr(node any) (queryir.Expr, error) {
	node = normalize(node)
	m, ok := node.(map[string]any)
	if !ok {
		v, err := Infer(node)
		if err != nil {
			return nil, err
		}
		return queryir.NewConstant(v), nil
	}
	form, err := formOf(m)
	if err != nil {
		return nil, err
	}
	switch form {
	case "const":
		return d.constant(m)
	case "path":
		return d.path(m)
	case "op":
		return d.operation(m)
	case "alias":
		return d.alias(m)
	case "sub":
		return d.subQuery(m["sub"])
	case "projection":
		args, err := d.exprList(m["projection"], "projection")
		if err != nil {
			return nil, err
		}
		return queryir.NewProjection(args...)
	default:
		src, err := d.Expr(m["convert"])
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		t, err := requiredType(m, "to")
		if err != nil {
			return nil, err
		}
		return queryir.NewConversion(src, t), nil
	}
}

func formOf(m map[string]any) (string, error) {
	var found []string
	for _, f := range nodeForms {
		if _, ok := m[f]; ok {
			found = append(found, f)
		}
	}
	if len(found) != 1 {
		return "", fmt.Errorf("node must have exactly one of %s, got keys %v", strings.Join(nodeForms, ", "), ir.SortedKeys(m))
	}
	form := found[0]
	for k := range m {
		if k != form && !slices.Contains(nodeAttrs[form], k) {
			return "", fmt.Errorf("%s node: unknown key %q", form, k)
		}
	}
	return form, nil
}

func optionalType(m map[string]any, key string) (*ir.Type, error) {
	raw, ok := m[key]
	if !ok {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a type name, got %T", key, raw)
	}
	return ParseType(s)
}

func requiredType(m map[string]any, key string) (*ir.Type, error) {
	t, err := optionalType(m, key)
	if err == nil && t == nil {
		err = fmt.Errorf("%s is required", key)
	}
	return t, err
}

func (d *Decoder) constant(m map[string]any) (queryir.Expr, error) {
	t, err := optionalType(m, "type")
	if err != nil {
		return nil, fmt.Errorf("const: %w", err)
	}
	var v any
	if t == nil {
		v, err = Infer(m["const"])
	} else {
		v, err = Coerce(m["const"], t)
	}
	if err != nil {
		return nil, fmt.Errorf("const: %w", err)
	}
	return queryir.NewConstant(v), nil
}

func (d *Decoder) path(m map[string]any) (queryir.Expr, error) {
	s, ok := m["path"].(string)
	if !ok {
		return nil, fmt.Errorf("path must be a string, got %T", m["path"])
	}
	t, err := optionalType(m, "type")
	if err != nil {
		return nil, fmt.Errorf("path %q: %w", s, err)
	}
	return d.resolvePath(s, t)
}

func (d *Decoder) operation(m map[string]any) (queryir.Expr, error) {
	name, ok := m["op"].(string)
	if !ok {
		return nil, fmt.Errorf("op must be a string, got %T", m["op"])
	}
	id := ops.ID(strings.ToUpper(name))
	if _, ok := ops.Lookup(id); !ok {
		return nil, fmt.Errorf("unknown operator %q", name)
	}
	args, err := d.exprList(m["args"], string(id))
	if err != nil {
		return nil, err
	}
	t, err := optionalType(m, "type")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	if t != nil {
		return queryir.NewTypedOperation(id, t, args...)
	}
	return queryir.NewOperation(id, args...)
}

func (d *Decoder) alias(m map[string]any) (queryir.Expr, error) {
	to, ok := m["as"].(string)
	if !ok || to == "" {
		return nil, fmt.Errorf("alias: as must be a non-empty string")
	}
	src, err := d.Expr(m["alias"])
	if err != nil {
		return nil, fmt.Errorf("alias %s: %w", to, err)
	}
	t := src.Type()
	if t.Kind() == ir.KindCollection || t.Kind() == ir.KindMap {
		t = t.Elem()
	}
	if t.Kind() == ir.KindEntity {
		if err := d.Bind(to, t.Name()); err != nil {
			return nil, fmt.Errorf("alias %s: %w", to, err)
		}
	}
	return queryir.NewAlias(src, to)
}

func (d *Decoder) subQuery(node any) (queryir.Expr, error) {
	m, ok := normalize(node).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("sub must be a mapping, got %T", node)
	}
	for k := range m {
		if k != "select" && k != "from" && k != "where" {
			return nil, fmt.Errorf("sub: unknown key %q", k)
		}
	}
	from, err := d.exprList(m["from"], "sub.from")
	if err != nil {
		return nil, err
	}
	projection, err := d.Expr(m["select"])
	if err != nil {
		return nil, fmt.Errorf("sub.select: %w", err)
	}
	where, err := d.exprList(m["where"], "sub.where")
	if err != nil {
		return nil, err
	}
	return queryir.NewSubQuery(projection, from, where...)
}

func (d *Decoder) exprList(node any, what string) ([]queryir.Expr, error) {
	if node == nil {
		return nil, nil
	}
	items, ok := normalize(node).([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a list, got %T", what, node)
	}
	out := make([]queryir.Expr, len(items))
	for i, item := range items {
		e, err := d.Expr(item)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", what, i, err)
		}
		out[i] = e
	}
	return out, nil
}

// normalize accepts canonical documents built in memory as well as decoded
// YAML.
func normalize(node any) any {
	switch x := node.(type) {
	case ir.Object:
		return map[string]any(x)
	case ir.Array:
		return []any(x)
	}
	return node
}
