package engine

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/pathql/internal/ir"
	"github.com/roach88/pathql/internal/ops"
	"github.com/roach88/pathql/internal/schema"
)

// likeCacheSize caps the compiled LIKE patterns kept in memory. Patterns
// come from queries, so the cache is dropped wholesale when it fills.
const likeCacheSize = 256

var likeCache = struct {
	sync.Mutex
	m map[string]*regexp.Regexp // pattern + "\x00" + escape
}{m: make(map[string]*regexp.Regexp)}

// Like matches s against a pattern where % matches any run of characters
// and _ matches exactly one. The match is anchored and case-sensitive.
//
// A pattern with nothing to translate is compared by plain equality, which
// gives the same result as the regular expression.
func Like(s, pattern string) bool {
	return likeMatch(s, pattern, 0)
}

// LikeEscape is Like where escape makes the following character literal.
func LikeEscape(s, pattern string, escape rune) bool {
	return likeMatch(s, pattern, escape)
}

func likeMatch(s, pattern string, escape rune) bool {
	expr := likeRegexp(pattern, escape)
	if expr == pattern {
		return s == pattern
	}
	return compileLike(pattern, escape, expr).MatchString(s)
}

func compileLike(pattern string, escape rune, expr string) *regexp.Regexp {
	key := pattern + "\x00" + string(escape)
	likeCache.Lock()
	defer likeCache.Unlock()
	if re, ok := likeCache.m[key]; ok {
		return re
	}
	re := regexp.MustCompile("^(?s:" + expr + ")$")
	if len(likeCache.m) >= likeCacheSize {
		clear(likeCache.m)
	}
	likeCache.m[key] = re
	return re
}

// likeRegexp translates a LIKE pattern into regular expression syntax,
// quoting every non-wildcard character.
func likeRegexp(pattern string, escape rune) string {
	var b strings.Builder
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case escape != 0 && r == escape:
			escaped = true
		case r == '%':
			b.WriteString(".*")
		case r == '_':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

// Coalesce returns the first non-null argument, or nil.
func Coalesce(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// NullIf returns nil when a equals b, otherwise a.
func NullIf(a, b any) any {
	if ir.Equal(a, b) {
		return nil
	}
	return a
}

// LeftJoin emulates an outer join over a nested collection: an empty
// sequence becomes a single null so that one row survives.
func LeftJoin(seq []any) []any {
	if len(seq) == 0 {
		return []any{nil}
	}
	return seq
}

// Get dereferences the member field of object at evaluation time.
// A nil object yields nil. A member the runtime type lacks is an
// ErrNoSuchField evaluation error.
func Get(object any, field string) (any, error) {
	if object == nil {
		return nil, nil
	}
	v, ok := schema.FieldValue(reflect.ValueOf(object), field)
	if !ok {
		return nil, &EvalError{Operand: reflect.TypeOf(object).String() + "." + field, Err: ErrNoSuchField}
	}
	return plain(v), nil
}

// plain unwraps a reflected value into an ordinary Go value. Nil pointers,
// nil interfaces and nil maps and slices become nil; pointers to scalars are
// dereferenced.
func plain(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		if v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Struct {
			return v.Interface()
		}
		return plain(v.Elem())
	case reflect.Map, reflect.Slice:
		if v.IsNil() {
			return nil
		}
	}
	if !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

// Elements returns the elements of a slice or array, or the values of a map
// in key order. The second result is false for anything else.
func Elements(v any) ([]any, bool) {
	if v == nil {
		return nil, true
	}
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = plain(rv.Index(i))
		}
		return out, true
	case reflect.Map:
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
		})
		out := make([]any, len(keys))
		for i, k := range keys {
			out[i] = plain(rv.MapIndex(k))
		}
		return out, true
	}
	return nil, false
}

var (
	lower = cases.Lower(language.Und)
	upper = cases.Upper(language.Und)
)

// stringFn applies a string operator to evaluated arguments. Null
// arguments yield null.
func stringFn(op ops.ID, args []any) (any, error) {
	for _, a := range args {
		if a == nil {
			return nil, nil
		}
	}
	s, ok := args[0].(string)
	if !ok {
		return nil, evalErr(op, args[0], ErrOperandType)
	}
	str := func(i int) (string, error) {
		v, ok := args[i].(string)
		if !ok {
			return "", evalErr(op, args[i], ErrOperandType)
		}
		return v, nil
	}
	integer := func(i int) (int, error) {
		n, ok := ir.AsInt64(args[i])
		if !ok || ir.IsFloatingValue(args[i]) {
			return 0, evalErr(op, args[i], ErrOperandType)
		}
		return int(n), nil
	}

	switch op {
	case ops.Lower:
		return lower.String(s), nil
	case ops.Upper:
		return upper.String(s), nil
	case ops.Trim:
		return strings.TrimSpace(s), nil
	case ops.Length:
		return int32(utf8.RuneCountInString(s)), nil
	case ops.Concat:
		var b strings.Builder
		b.WriteString(s)
		for i := 1; i < len(args); i++ {
			o, err := str(i)
			if err != nil {
				return nil, err
			}
			b.WriteString(o)
		}
		return b.String(), nil
	case ops.Substr1, ops.Substr2:
		runes := []rune(s)
		begin, err := integer(1)
		if err != nil {
			return nil, err
		}
		end := len(runes)
		if op == ops.Substr2 {
			if end, err = integer(2); err != nil {
				return nil, err
			}
		}
		begin = max(0, min(begin, len(runes)))
		end = max(begin, min(end, len(runes)))
		return string(runes[begin:end]), nil
	}

	o, err := str(1)
	if err != nil {
		return nil, err
	}
	switch op {
	case ops.StartsWith:
		return strings.HasPrefix(s, o), nil
	case ops.EndsWith:
		return strings.HasSuffix(s, o), nil
	case ops.StringContains:
		return strings.Contains(s, o), nil
	case ops.Like:
		return Like(s, o), nil
	case ops.LikeEscape:
		esc, err := str(2)
		if err != nil {
			return nil, err
		}
		r, _ := utf8.DecodeRuneInString(esc)
		return LikeEscape(s, o, r), nil
	}
	return nil, evalErr(op, s, ErrUnknownOperator)
}
