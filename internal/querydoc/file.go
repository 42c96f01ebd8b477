package querydoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pathql/internal/queryir"
)

// File is a query document on disk.
type File struct {
	// Name identifies the query in output and golden files.
	Name string `yaml:"name,omitempty"`

	// Vars binds variables to entity names, e.g. {cat: Cat}.
	Vars map[string]string `yaml:"vars,omitempty"`

	// Select is one node, or a list of nodes for a multi-column projection.
	Select any `yaml:"select"`

	From     []SourceDoc `yaml:"from"`
	Where    []any       `yaml:"where,omitempty"`
	GroupBy  []any       `yaml:"group_by,omitempty"`
	Having   []any       `yaml:"having,omitempty"`
	OrderBy  []OrderDoc  `yaml:"order_by,omitempty"`
	Distinct bool        `yaml:"distinct,omitempty"`
	Limit    int         `yaml:"limit,omitempty"`
	Offset   int         `yaml:"offset,omitempty"`
}

// SourceDoc is one entry of the from list.
type SourceDoc struct {
	Source any    `yaml:"source"`
	Join   string `yaml:"join,omitempty"` // "inner" (default) or "left"
	On     any    `yaml:"on,omitempty"`
}

// OrderDoc is one order_by entry.
type OrderDoc struct {
	Expr any  `yaml:"expr"`
	Desc bool `yaml:"desc,omitempty"`
}

// Parse reads a query document, rejecting unknown fields.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty query document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if f.Select == nil {
		return nil, fmt.Errorf("select is required")
	}
	if len(f.From) == 0 {
		return nil, fmt.Errorf("from list is required and must be non-empty")
	}
	return &f, nil
}

// LoadFile reads and parses the query document at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query file: %w", err)
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Query builds and validates the query described by f. Sources are decoded
// first so that their variables are bound for the other clauses.
func (d *Decoder) Query(f *File) (*queryir.Query, error) {
	for v, entity := range f.Vars {
		if err := d.Bind(v, entity); err != nil {
			return nil, err
		}
	}
	q := &queryir.Query{Distinct: f.Distinct, Limit: f.Limit, Offset: f.Offset}
	for i, s := range f.From {
		src, err := d.source(s)
		if err != nil {
			return nil, fmt.Errorf("from[%d]: %w", i, err)
		}
		q.From = append(q.From, src)
	}

	sel, err := d.selection(f.Select)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	q.Select = sel

	if q.Where, err = d.exprList(toList(f.Where), "where"); err != nil {
		return nil, err
	}
	if q.GroupBy, err = d.exprList(toList(f.GroupBy), "group_by"); err != nil {
		return nil, err
	}
	if q.Having, err = d.exprList(toList(f.Having), "having"); err != nil {
		return nil, err
	}
	for i, o := range f.OrderBy {
		e, err := d.Expr(o.Expr)
		if err != nil {
			return nil, fmt.Errorf("order_by[%d]: %w", i, err)
		}
		q.OrderBy = append(q.OrderBy, queryir.OrderSpec{Expr: e, Desc: o.Desc})
	}

	if res := queryir.ValidateQuery(q); !res.IsValid {
		return nil, fmt.Errorf("invalid query: %s", res.Warnings[0])
	}
	return q, nil
}

func (d *Decoder) source(s SourceDoc) (queryir.Source, error) {
	e, err := d.Expr(s.Source)
	if err != nil {
		return queryir.Source{}, err
	}
	src := queryir.Source{Expr: e}
	switch s.Join {
	case "", "inner":
		src.Join = queryir.JoinInner
	case "left":
		src.Join = queryir.JoinLeft
	default:
		return queryir.Source{}, fmt.Errorf("unknown join %q", s.Join)
	}
	if s.On != nil {
		if src.On, err = d.Expr(s.On); err != nil {
			return queryir.Source{}, fmt.Errorf("on: %w", err)
		}
	}
	return src, nil
}

// selection decodes a single node or a list of nodes into a projection.
func (d *Decoder) selection(node any) (queryir.Expr, error) {
	items, ok := normalize(node).([]any)
	if !ok {
		return d.Expr(node)
	}
	args, err := d.exprList(items, "select")
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return args[0], nil
	}
	return queryir.NewProjection(args...)
}

func toList(items []any) any {
	if items == nil {
		return nil
	}
	return items
}

// FromQuery renders q as a query document. Decoding the result with a
// registry that knows q's entities yields a structurally equal query.
func FromQuery(q *queryir.Query) *File {
	f := &File{
		Select:   Export(queryir.Document(q.Select)),
		Distinct: q.Distinct,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	for _, s := range q.From {
		sd := SourceDoc{Source: Export(queryir.Document(s.Expr))}
		if s.Join == queryir.JoinLeft {
			sd.Join = "left"
		}
		if s.On != nil {
			sd.On = Export(queryir.Document(s.On))
		}
		f.From = append(f.From, sd)
	}
	f.Where = exportAll(q.Where)
	f.GroupBy = exportAll(q.GroupBy)
	f.Having = exportAll(q.Having)
	for _, o := range q.OrderBy {
		f.OrderBy = append(f.OrderBy, OrderDoc{Expr: Export(queryir.Document(o.Expr)), Desc: o.Desc})
	}
	return f
}

func exportAll(es []queryir.Expr) []any {
	if len(es) == 0 {
		return nil
	}
	out := make([]any, len(es))
	for i, e := range es {
		out[i] = Export(queryir.Document(e))
	}
	return out
}

// Marshal renders q as YAML.
func Marshal(q *queryir.Query) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(FromQuery(q)); err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}
	return buf.Bytes(), nil
}
