package querydoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/queryir"
)

type stepKind int

const (
	stepProperty stepKind = iota
	stepIndex
	stepKey
)

type step struct {
	kind  stepKind
	name  string
	index int
}

// parsePath splits "cat.kittens[0].name" or "cat.byName['Tom']" into the
// root variable and its navigation steps.
func parsePath(s string) (string, []step, error) {
	end := identEnd(s, 0)
	if end == 0 {
		return "", nil, fmt.Errorf("path %q: expected variable name", s)
	}
	root := s[:end]
	var steps []step
	for i := end; i < len(s); {
		switch {
		case s[i] == '.':
			j := identEnd(s, i+1)
			if j == i+1 {
				return "", nil, fmt.Errorf("path %q: expected property name at %d", s, i+1)
			}
			steps = append(steps, step{kind: stepProperty, name: s[i+1 : j]})
			i = j
		case strings.HasPrefix(s[i:], "['"):
			key, n, ok := quotedKey(s[i+2:])
			if !ok {
				return "", nil, fmt.Errorf("path %q: unterminated key at %d", s, i)
			}
			steps = append(steps, step{kind: stepKey, name: key})
			i += 2 + n
		case s[i] == '[':
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				return "", nil, fmt.Errorf("path %q: unterminated index at %d", s, i)
			}
			idx, err := strconv.Atoi(s[i+1 : i+j])
			if err != nil || idx < 0 {
				return "", nil, fmt.Errorf("path %q: bad index %q", s, s[i+1:i+j])
			}
			steps = append(steps, step{kind: stepIndex, index: idx})
			i += j + 1
		default:
			return "", nil, fmt.Errorf("path %q: unexpected %q at %d", s, s[i], i)
		}
	}
	return root, steps, nil
}

func identEnd(s string, from int) int {
	i := from
	for i < len(s) {
		c := s[i]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || i > from && c >= '0' && c <= '9' {
			i++
			continue
		}
		break
	}
	return i
}

// quotedKey reads a key with doubled quotes up to the closing "']". It
// returns the key and the number of bytes consumed including the terminator.
func quotedKey(s string) (string, int, bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\'' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == ']' {
			return b.String(), i + 2, true
		}
		return "", 0, false
	}
	return "", 0, false
}

// resolvePath builds the typed path for s. Property types come from the
// registry; the root entity from the variable bindings.
func (d *Decoder) resolvePath(s string, declared *ir.Type) (*queryir.Path, error) {
	root, steps, err := parsePath(s)
	if err != nil {
		return nil, err
	}
	entity, ok := d.vars[root]
	if !ok {
		if len(steps) == 0 && declared.Kind() == ir.KindEntity {
			entity = declared.Name()
			d.vars[root] = entity
		} else {
			return nil, fmt.Errorf("path %q: unknown variable %q", s, root)
		}
	}
	p := queryir.NewVariable(entity, root)
	for _, st := range steps {
		switch st.kind {
		case stepProperty:
			if p.Type().Kind() != ir.KindEntity {
				return nil, fmt.Errorf("path %q: %s is %s, not an entity", s, p, p.Type())
			}
			e, ok := d.registry.Lookup(p.Type().Name())
			if !ok {
				return nil, fmt.Errorf("path %q: unknown entity %q", s, p.Type().Name())
			}
			prop, ok := e.Property(st.name)
			if !ok {
				return nil, fmt.Errorf("path %q: entity %s has no property %q", s, e.Name, st.name)
			}
			p = prop.PathFrom(p)
		case stepIndex:
			if p.Type().Kind() != ir.KindCollection {
				return nil, fmt.Errorf("path %q: %s is %s, not a collection", s, p, p.Type())
			}
			p = p.Element(st.index)
		case stepKey:
			if p.Type().Kind() != ir.KindMap {
				return nil, fmt.Errorf("path %q: %s is %s, not a map", s, p, p.Type())
			}
			p = p.Value(st.name)
		}
	}
	if declared != nil && !declared.Equal(p.Type()) {
		return nil, fmt.Errorf("path %q: declared %s but resolves to %s", s, declared, p.Type())
	}
	return p, nil
}
