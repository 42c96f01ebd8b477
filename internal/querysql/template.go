package querysql

import (
	"fmt"
	"strconv"
	"strings"
)

// Precedence levels, loosest first. PrecAtom marks function-style templates
// and leaf nodes.
const (
	PrecOr = 10 * (iota + 1)
	PrecAnd
	PrecNot
	PrecComparison
	PrecAdditive
	PrecMultiplicative
	PrecConcat
	PrecUnary
	PrecAtom = 100
)

type partKind int

const (
	partText partKind = iota
	partArg           // {N}
	partRest          // {*}: remaining arguments joined by ", "
	partList          // {(*)}: remaining arguments as a parenthesized list
)

type part struct {
	kind partKind
	text string
	arg  int
}

// Template renders one operator.
//
// Pattern syntax: {N} is argument N, {*} the arguments after the highest
// explicit index joined by ", ", and {(*)} the same list in parentheses
// (a lone sub-query argument keeps its own parentheses). A template with
// Infix set joins all arguments with it instead of using a pattern.
type Template struct {
	Pattern string
	Infix   string

	// Precedence is the binding strength of the rendered text.
	Precedence int

	// ArgPrecedence is the weakest child precedence rendered bare; weaker
	// children are parenthesized. Zero never parenthesizes.
	ArgPrecedence int

	// Strict parenthesizes children of equal precedence after the first
	// argument, for non-associative operators such as "-" and "/".
	Strict bool

	parts []part
	rest  int // first argument index covered by {*}
}

// Infix returns a variadic infix template, e.g. Infix(" and ", PrecAnd).
func Infix(sep string, prec int) *Template {
	return &Template{Infix: sep, Precedence: prec, ArgPrecedence: prec}
}

// Op returns an operator-style template whose arguments bind at least as
// tight as prec.
func Op(pattern string, prec int) *Template {
	return mustParse(&Template{Pattern: pattern, Precedence: prec, ArgPrecedence: prec})
}

// StrictOp is Op for non-associative operators.
func StrictOp(pattern string, prec int) *Template {
	return mustParse(&Template{Pattern: pattern, Precedence: prec, ArgPrecedence: prec, Strict: true})
}

// Fn returns a function-style template. Its arguments are never
// parenthesized.
func Fn(pattern string) *Template {
	return mustParse(&Template{Pattern: pattern, Precedence: PrecAtom})
}

// Expr returns a template whose text has precedence prec and whose
// arguments are parenthesized below argPrec.
func Expr(pattern string, prec, argPrec int) *Template {
	return mustParse(&Template{Pattern: pattern, Precedence: prec, ArgPrecedence: argPrec})
}

func mustParse(t *Template) *Template {
	if err := t.parse(); err != nil {
		panic(err)
	}
	return t
}

// parse splits Pattern into parts.
func (t *Template) parse() error {
	t.parts = t.parts[:0]
	maxArg := -1
	s := t.Pattern
	for len(s) > 0 {
		open := strings.IndexByte(s, '{')
		if open < 0 {
			t.parts = append(t.parts, part{kind: partText, text: s})
			break
		}
		if open > 0 {
			t.parts = append(t.parts, part{kind: partText, text: s[:open]})
		}
		end := strings.IndexByte(s[open:], '}')
		if end < 0 {
			return fmt.Errorf("template %q: unclosed placeholder", t.Pattern)
		}
		body := s[open+1 : open+end]
		switch body {
		case "*":
			t.parts = append(t.parts, part{kind: partRest})
		case "(*)":
			t.parts = append(t.parts, part{kind: partList})
		default:
			n, err := strconv.Atoi(body)
			if err != nil || n < 0 {
				return fmt.Errorf("template %q: bad placeholder {%s}", t.Pattern, body)
			}
			t.parts = append(t.parts, part{kind: partArg, arg: n})
			maxArg = max(maxArg, n)
		}
		s = s[open+end+1:]
	}
	t.rest = maxArg + 1
	return nil
}

// minArgs is the number of arguments the pattern refers to explicitly.
func (t *Template) minArgs() int {
	if t.Infix != "" {
		return 1
	}
	return t.rest
}

// render substitutes rendered arguments. isSub reports whether argument i
// is a sub-query.
func (t *Template) render(args []string, isSub func(int) bool) string {
	if t.Infix != "" {
		return strings.Join(args, t.Infix)
	}
	var b strings.Builder
	for _, p := range t.parts {
		switch p.kind {
		case partText:
			b.WriteString(p.text)
		case partArg:
			b.WriteString(args[p.arg])
		case partRest:
			b.WriteString(strings.Join(args[t.rest:], ", "))
		case partList:
			rest := args[t.rest:]
			if len(rest) == 1 && isSub(t.rest) {
				b.WriteString(rest[0])
				continue
			}
			b.WriteByte('(')
			b.WriteString(strings.Join(rest, ", "))
			b.WriteByte(')')
		}
	}
	return b.String()
}

// wraps reports whether argument i, of precedence child, needs parentheses.
func (t *Template) wraps(i, child int) bool {
	if t.ArgPrecedence == 0 || child >= PrecAtom {
		return false
	}
	if child < t.ArgPrecedence {
		return true
	}
	return t.Strict && i > 0 && child == t.ArgPrecedence
}
