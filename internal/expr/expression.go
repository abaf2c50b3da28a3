package expr

import (
	"math"
	"strings"
)

// Expression is an ordered sum of terms. The zero value is the empty sum, which
// evaluates to 0.
type Expression struct {
	terms []Term
}

// New builds an Expression that owns a private copy of terms.
func New(terms ...Term) Expression {
	if len(terms) == 0 {
		return Expression{}
	}
	owned := make([]Term, len(terms))
	copy(owned, terms)
	return Expression{terms: owned}
}

// Terms returns a copy of the terms in order.
func (e Expression) Terms() []Term {
	out := make([]Term, len(e.terms))
	copy(out, e.terms)
	return out
}

func (e Expression) Len() int      { return len(e.terms) }
func (e Expression) At(i int) Term { return e.terms[i] }
func (e Expression) IsEmpty() bool { return len(e.terms) == 0 }
func (e Expression) Equal(o Expression) bool {
	if len(e.terms) != len(o.terms) {
		return false
	}
	for i := range e.terms {
		if e.terms[i].key() != o.terms[i].key() {
			return false
		}
	}
	return true
}

// Append returns a new Expression with ts added after the existing terms.
func (e Expression) Append(ts ...Term) Expression {
	out := make([]Term, 0, len(e.terms)+len(ts))
	out = append(out, e.terms...)
	out = append(out, ts...)
	return Expression{terms: out}
}

// Concat joins expressions left to right into a fresh Expression.
func Concat(es ...Expression) Expression {
	n := 0
	for _, e := range es {
		n += len(e.terms)
	}
	out := make([]Term, 0, n)
	for _, e := range es {
		out = append(out, e.terms...)
	}
	return Expression{terms: out}
}

// Key is a canonical structural encoding. Two expressions have the same key
// exactly when they hold the same terms in the same order.
func (e Expression) Key() string {
	keys := make([]string, len(e.terms))
	for i, t := range e.terms {
		keys[i] = t.key()
	}
	return strings.Join(keys, ";")
}

func (e Expression) String() string {
	if len(e.terms) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, t := range e.terms {
		s := t.String()
		switch {
		case i == 0:
			b.WriteString(s)
		case strings.HasPrefix(s, "-"):
			b.WriteString(" - ")
			b.WriteString(s[1:])
		default:
			b.WriteString(" + ")
			b.WriteString(s)
		}
	}
	return b.String()
}

// Eval evaluates the expression at x with the default singularity tolerance.
func (e Expression) Eval(x float64) (float64, error) {
	return e.EvalEps(x, SingularEpsilon)
}

// EvalEps sums every term at x. If any term reports a DomainWarning the result
// is NaN and the first warning is returned; remaining terms are still visited
// so that hard errors take precedence over warnings.
func (e Expression) EvalEps(x, eps float64) (float64, error) {
	sum := 0.0
	var warn error
	for _, t := range e.terms {
		v, err := t.At(x, eps)
		if err != nil {
			if !IsDomainWarning(err) {
				return math.NaN(), err
			}
			if warn == nil {
				warn = err
			}
			continue
		}
		sum += v
	}
	if warn != nil {
		return math.NaN(), warn
	}
	return sum, nil
}

// Func adapts the expression to a plain numeric function. Singular points map
// to NaN.
func (e Expression) Func() func(float64) float64 {
	return func(x float64) float64 {
		v, err := e.Eval(x)
		if err != nil {
			return math.NaN()
		}
		return v
	}
}
