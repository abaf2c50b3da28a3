// Package parse turns the surface syntax into an expr.Expression.
//
// The grammar is a flat sum of terms separated by top-level + and -:
//
//	2*x^3 + 3*sin(x) - 5*exp(2*x) + 1
//
// Each term is a constant, a power of x with a non-negative integer exponent,
// sin/cos/tan of a linear argument, or exp of a linear argument. Positions in
// errors refer to the caller's original text, whitespace included.
package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/derivlab/internal/expr"
)

// source is the input with whitespace removed; off[i] is the byte offset of
// s[i] in the original text.
type source struct {
	s     string
	off   []int
	input string
}

func (src source) slice(start, end int) source {
	return source{s: src.s[start:end], off: src.off[start:end], input: src.input}
}

// errAt builds a ParseError for index i of src. An index past the end points
// just after the last character.
func (src source) errAt(i int, reason string) *ParseError {
	pos := len(src.input)
	switch {
	case i < len(src.off):
		pos = src.off[i]
	case len(src.off) > 0:
		pos = src.off[len(src.off)-1] + 1
	}
	return &ParseError{Reason: reason, Pos: pos, Input: src.input}
}

// Parse converts text into an Expression, keeping terms in written order.
// Same-exponent terms are not merged; see expr.Collect.
func Parse(text string) (expr.Expression, error) {
	src := compact(text)
	if len(src.s) == 0 {
		return expr.Expression{}, &ParseError{Reason: "empty expression", Pos: 0, Input: text}
	}

	tokens, err := split(src)
	if err != nil {
		return expr.Expression{}, err
	}

	terms := make([]expr.Term, 0, len(tokens))
	for _, tok := range tokens {
		t, err := classify(tok)
		if err != nil {
			return expr.Expression{}, err
		}
		terms = append(terms, t)
	}
	return expr.New(terms...), nil
}

// MustParse is like Parse but panics on error. Intended for fixed inputs.
func MustParse(text string) expr.Expression {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

func compact(text string) source {
	var b strings.Builder
	off := make([]int, 0, len(text))
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			continue
		}
		b.WriteByte(text[i])
		off = append(off, i)
	}
	return source{s: b.String(), off: off, input: text}
}

// split cuts src at additive operators that sit outside parentheses. The
// operator stays at the front of the token it introduces.
func split(src source) ([]source, error) {
	s := src.s
	var tokens []source
	var open []int
	start := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			open = append(open, i)
		case ')':
			if len(open) == 0 {
				return nil, src.errAt(i, "unbalanced ')'")
			}
			open = open[:len(open)-1]
		case '+', '-':
			if i == 0 || len(open) > 0 {
				continue
			}
			switch s[i-1] {
			case '^', '*', '(':
				continue
			}
			if isExponentSign(s, i) {
				continue
			}
			tokens = append(tokens, src.slice(start, i))
			start = i
		}
	}
	if len(open) > 0 {
		return nil, src.errAt(open[len(open)-1], "unbalanced '('")
	}
	return append(tokens, src.slice(start, len(s))), nil
}

// isExponentSign reports whether the sign at s[i] belongs to scientific
// notation such as 1e-3.
func isExponentSign(s string, i int) bool {
	if i < 2 || i+1 >= len(s) {
		return false
	}
	if s[i-1] != 'e' && s[i-1] != 'E' {
		return false
	}
	return (isDigit(s[i-2]) || s[i-2] == '.') && isDigit(s[i+1])
}

func classify(tok source) (expr.Term, error) {
	s := tok.s
	i := 0
	sign := 1.0
	if s[0] == '+' || s[0] == '-' {
		if s[0] == '-' {
			sign = -1
		}
		i = 1
	}
	if i == len(s) {
		return nil, tok.errAt(0, "missing term after sign")
	}

	coef := sign
	hasNum := false
	if end := scanNumber(s, i); end > i {
		v, err := strconv.ParseFloat(s[i:end], 64)
		if err != nil || math.IsInf(v, 0) {
			return nil, tok.errAt(i, fmt.Sprintf("malformed number %q", s[i:end]))
		}
		coef = sign * v
		hasNum = true
		i = end
	}
	if hasNum && i == len(s) {
		return expr.Constant{Value: coef}, nil
	}
	if hasNum && s[i] == '*' {
		i++
		if i == len(s) {
			return nil, tok.errAt(i-1, "missing factor after '*'")
		}
	}

	rest := s[i:]
	for _, fn := range []expr.TrigFn{expr.Sin, expr.Cos, expr.Tan} {
		if strings.HasPrefix(rest, string(fn)+"(") {
			k, err := callArg(tok, i+len(fn), string(fn))
			if err != nil {
				return nil, err
			}
			return expr.Trig{Fn: fn, Coef: coef, K: k}, nil
		}
	}
	if strings.HasPrefix(rest, "exp(") {
		k, err := callArg(tok, i+3, "exp")
		if err != nil {
			return nil, err
		}
		return expr.Exponential{Coef: coef, Rate: k}, nil
	}
	if rest[0] == 'x' || rest[0] == 'X' {
		return polynomial(tok, i+1, coef)
	}
	return nil, tok.errAt(i, "unrecognized term")
}

// callArg parses the parenthesised argument whose '(' is at tok.s[open]. The
// call must end the token and its argument must be linear in x.
func callArg(tok source, open int, name string) (float64, error) {
	s := tok.s
	depth := 0
	closing := -1
	for j := open; j < len(s); j++ {
		if s[j] == '(' {
			depth++
		} else if s[j] == ')' {
			depth--
			if depth == 0 {
				closing = j
				break
			}
		}
	}
	if closing < 0 {
		return 0, tok.errAt(open, "unbalanced '('")
	}
	if closing != len(s)-1 {
		return 0, tok.errAt(closing+1, fmt.Sprintf("unexpected input after %s(...)", name))
	}
	k, ok := linear(s[open+1 : closing])
	if !ok {
		return 0, tok.errAt(open+1, fmt.Sprintf("argument of %s must be linear in x", name))
	}
	return k, nil
}

// linear accepts x, -x, k*x and kx and returns k.
func linear(arg string) (float64, bool) {
	j := 0
	sign := 1.0
	if j < len(arg) && (arg[j] == '+' || arg[j] == '-') {
		if arg[j] == '-' {
			sign = -1
		}
		j++
	}
	k := 1.0
	if end := scanNumber(arg, j); end > j {
		v, err := strconv.ParseFloat(arg[j:end], 64)
		if err != nil || math.IsInf(v, 0) {
			return 0, false
		}
		k = v
		j = end
		if j < len(arg) && arg[j] == '*' {
			j++
		}
	}
	if j != len(arg)-1 || (arg[j] != 'x' && arg[j] != 'X') {
		return 0, false
	}
	return sign * k, true
}

// polynomial parses what follows the variable at tok.s[i-1].
func polynomial(tok source, i int, coef float64) (expr.Term, error) {
	s := tok.s
	if i == len(s) {
		return expr.Polynomial{Coef: coef, Exp: 1}, nil
	}
	if s[i] != '^' {
		return nil, tok.errAt(i, fmt.Sprintf("unexpected %q after x", s[i]))
	}
	i++
	if i == len(s) {
		return nil, tok.errAt(i-1, "missing exponent after '^'")
	}
	switch s[i] {
	case '-':
		return nil, tok.errAt(i, "negative exponent is not supported")
	case '+':
		i++
	}

	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if start == i {
		return nil, tok.errAt(start, "exponent must be a non-negative integer")
	}
	if i < len(s) {
		if s[i] == '.' {
			return nil, tok.errAt(i, "exponent must be an integer")
		}
		return nil, tok.errAt(i, "unexpected input after exponent")
	}
	n, err := strconv.Atoi(s[start:i])
	if err != nil {
		return nil, tok.errAt(start, "exponent out of range")
	}
	return expr.Polynomial{Coef: coef, Exp: n}, nil
}

// scanNumber returns the end of the decimal literal starting at s[i], or i if
// there is none.
func scanNumber(s string, i int) int {
	j := i
	digits, dot := false, false
scan:
	for ; j < len(s); j++ {
		switch c := s[j]; {
		case isDigit(c):
			digits = true
		case c == '.' && !dot:
			dot = true
		default:
			break scan
		}
	}
	if !digits {
		return i
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < len(s) && isDigit(s[k]) {
			for k < len(s) && isDigit(s[k]) {
				k++
			}
			j = k
		}
	}
	return j
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
