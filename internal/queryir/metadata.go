package queryir

import (
	"strconv"
	"strings"
)

// MetadataKind tells how a path position is reached from its parent.
type MetadataKind int

const (
	MetadataVariable   MetadataKind = iota // root variable, no parent
	MetadataProperty                       // parent.name
	MetadataListAccess                     // parent[index]
	MetadataMapAccess                      // parent['key']
)

// PathMetadata identifies a position in a property-path tree.
//
// Identity is structural: two metadata values are Equal when their kinds,
// names, indexes and parent chains are equal. PathMetadata is immutable.
type PathMetadata struct {
	parent *PathMetadata
	kind   MetadataKind
	name   string
	index  int
	key    string
}

// ForVariable returns root metadata for a query variable.
func ForVariable(name string) *PathMetadata {
	return &PathMetadata{kind: MetadataVariable, name: name}
}

// ForProperty returns metadata for a named property of parent.
func ForProperty(parent *PathMetadata, name string) *PathMetadata {
	return &PathMetadata{parent: parent, kind: MetadataProperty, name: name}
}

// ForListAccess returns metadata for element i of the collection at parent.
func ForListAccess(parent *PathMetadata, i int) *PathMetadata {
	return &PathMetadata{parent: parent, kind: MetadataListAccess, index: i}
}

// ForMapAccess returns metadata for the value under key of the map at parent.
func ForMapAccess(parent *PathMetadata, key string) *PathMetadata {
	return &PathMetadata{parent: parent, kind: MetadataMapAccess, key: key}
}

// Parent returns the parent metadata, nil for a root.
func (m *PathMetadata) Parent() *PathMetadata { return m.parent }

// Kind returns how this position is reached.
func (m *PathMetadata) Kind() MetadataKind { return m.kind }

// Name returns the local name (variable or property). Empty for element
// access.
func (m *PathMetadata) Name() string { return m.name }

// Index returns the element index of a list access.
func (m *PathMetadata) Index() (int, bool) {
	return m.index, m.kind == MetadataListAccess
}

// Key returns the key of a map access.
func (m *PathMetadata) Key() (string, bool) {
	return m.key, m.kind == MetadataMapAccess
}

// IsRoot reports whether m has no parent.
func (m *PathMetadata) IsRoot() bool { return m.parent == nil }

// Root returns the root variable metadata.
func (m *PathMetadata) Root() *PathMetadata {
	r := m
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Chain returns m and its ancestors, innermost first.
func (m *PathMetadata) Chain() []*PathMetadata {
	var out []*PathMetadata
	for c := m; c != nil; c = c.parent {
		out = append(out, c)
	}
	return out
}

// Depth returns the number of steps from the root (0 for a root).
func (m *PathMetadata) Depth() int {
	return len(m.Chain()) - 1
}

// Equal reports structural equality of the two chains.
func (m *PathMetadata) Equal(o *PathMetadata) bool {
	for a, b := m, o; ; a, b = a.parent, b.parent {
		if a == b {
			return true
		}
		if a == nil || b == nil {
			return false
		}
		if a.kind != b.kind || a.name != b.name || a.index != b.index || a.key != b.key {
			return false
		}
	}
}

// String renders the chain, e.g. "cat.mate.name", "cat.kittens[2]" or
// "cat.kittensByName['Tom']".
func (m *PathMetadata) String() string {
	var b strings.Builder
	m.write(&b)
	return b.String()
}

func (m *PathMetadata) write(b *strings.Builder) {
	if m.parent != nil {
		m.parent.write(b)
	}
	switch m.kind {
	case MetadataVariable:
		b.WriteString(m.name)
	case MetadataProperty:
		b.WriteByte('.')
		b.WriteString(m.name)
	case MetadataListAccess:
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(m.index))
		b.WriteByte(']')
	case MetadataMapAccess:
		b.WriteString("['")
		b.WriteString(strings.ReplaceAll(m.key, "'", "''"))
		b.WriteString("']")
	}
}
