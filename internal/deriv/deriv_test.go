package deriv

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/num/dual"

	"github.com/san-kum/derivlab/internal/expr"
	"github.com/san-kum/derivlab/internal/parse"
)

func TestTermRules(t *testing.T) {
	tests := []struct {
		name string
		in   expr.Term
		want []expr.Term
	}{
		{"constant", expr.Constant{Value: 7}, nil},
		{"x^0", expr.Polynomial{Coef: 4, Exp: 0}, nil},
		{"x", expr.Polynomial{Coef: 1, Exp: 1}, []expr.Term{expr.Polynomial{Coef: 1, Exp: 0}}},
		{"2x^3", expr.Polynomial{Coef: 2, Exp: 3}, []expr.Term{expr.Polynomial{Coef: 6, Exp: 2}}},
		{"3sin(x)", expr.Trig{Fn: expr.Sin, Coef: 3, K: 1}, []expr.Term{expr.Trig{Fn: expr.Cos, Coef: 3, K: 1}}},
		{"cos(2x)", expr.Trig{Fn: expr.Cos, Coef: 1, K: 2}, []expr.Term{expr.Trig{Fn: expr.Sin, Coef: -2, K: 2}}},
		{"tan(3x)", expr.Trig{Fn: expr.Tan, Coef: 2, K: 3}, []expr.Term{expr.Special{Form: expr.Sec2, Coef: 6, K: 3}}},
		{"-5exp(2x)", expr.Exponential{Coef: -5, Rate: 2}, []expr.Term{expr.Exponential{Coef: -10, Rate: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Term(tt.in)
			if err != nil {
				t.Fatalf("Term(%v): %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Term(%v) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestSec2IsUnsupported(t *testing.T) {
	sec := expr.Special{Form: expr.Sec2, Coef: 1, K: 1}
	_, err := Term(sec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))

	var ud *UnsupportedDerivative
	require.True(t, errors.As(err, &ud))
	assert.Equal(t, expr.Term(sec), ud.Term)
}

func TestMixedExpression(t *testing.T) {
	e := parse.MustParse("2*x^3 + 3*sin(x) - 5*exp(2*x) + 1")
	res, err := Expression(e, Strict)
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, "6*x^2 + 3*cos(x) - 10*exp(2*x)", res.Expr.String())
}

func TestDoesNotMutateInput(t *testing.T) {
	e := parse.MustParse("x^2 + tan(x)")
	before := e.Key()
	_, err := Expression(e, Strict)
	require.NoError(t, err)
	assert.Equal(t, before, e.Key())
}

func TestLinearity(t *testing.T) {
	parts := []string{"2*x^3", "3*sin(x)", "-5*exp(2*x)", "1", "cos(-x)", "tan(2x)", "x"}
	for i := range parts {
		for j := range parts {
			a := parse.MustParse(parts[i])
			b := parse.MustParse(parts[j])

			whole, err := Expression(expr.Concat(a, b), Strict)
			require.NoError(t, err)
			da, err := Expression(a, Strict)
			require.NoError(t, err)
			db, err := Expression(b, Strict)
			require.NoError(t, err)

			assert.True(t, whole.Expr.Equal(expr.Concat(da.Expr, db.Expr)),
				"d(%s + %s) = %s", parts[i], parts[j], whole.Expr)
		}
	}
}

func TestPolicy(t *testing.T) {
	// second derivative of tan hits sec²
	e := parse.MustParse("x^2 + tan(x)")
	first, err := Expression(e, Strict)
	require.NoError(t, err)

	t.Run("strict", func(t *testing.T) {
		_, err := Expression(first.Expr, Strict)
		assert.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("skip", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		res, err := Expression(first.Expr, Skip, WithLogger(zap.New(core)))
		require.NoError(t, err)
		assert.Equal(t, "2", res.Expr.String())
		require.Len(t, res.Skipped, 1)
		assert.Equal(t, expr.KindSpecial, res.Skipped[0].Term.Kind())
		assert.Equal(t, 1, logs.FilterMessage("skipping term without derivative rule").Len())
	})
}

func TestNth(t *testing.T) {
	e := parse.MustParse("x^4 + sin(x)")

	tests := []struct {
		n    int
		want string
	}{
		{0, "x^4 + sin(x)"},
		{1, "4*x^3 + cos(x)"},
		{2, "12*x^2 - sin(x)"},
		{4, "24 + sin(x)"},
		{5, "cos(x)"},
	}
	for _, tt := range tests {
		res, err := Nth(e, tt.n, Strict)
		require.NoError(t, err)
		if got := res.Expr.String(); got != tt.want {
			t.Errorf("Nth(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}

	_, err := Nth(e, -1, Strict)
	assert.Error(t, err)
}

func TestNthAccumulatesSkipped(t *testing.T) {
	res, err := Nth(parse.MustParse("tan(x) + x^3"), 3, Skip)
	require.NoError(t, err)
	assert.Equal(t, "6", res.Expr.String())
	assert.Len(t, res.Skipped, 1)

	_, err = Nth(parse.MustParse("tan(x)"), 2, Strict)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": Strict, "strict": Strict, "SKIP": Skip} {
		got, err := ParsePolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParsePolicy("lenient")
	assert.Error(t, err)
}

// dualOf evaluates a term on a dual number; the infinitesimal part of the
// result is the exact derivative.
func dualOf(t expr.Term, x dual.Number) dual.Number {
	switch v := t.(type) {
	case expr.Constant:
		return dual.Number{Real: v.Value}
	case expr.Polynomial:
		return dual.Scale(v.Coef, dual.PowReal(x, float64(v.Exp)))
	case expr.Trig:
		arg := dual.Scale(v.K, x)
		switch v.Fn {
		case expr.Sin:
			return dual.Scale(v.Coef, dual.Sin(arg))
		case expr.Cos:
			return dual.Scale(v.Coef, dual.Cos(arg))
		case expr.Tan:
			return dual.Scale(v.Coef, dual.Tan(arg))
		}
	case expr.Exponential:
		return dual.Scale(v.Coef, dual.Exp(dual.Scale(v.Rate, x)))
	}
	panic("no dual form for " + t.String())
}

func TestAgreesWithDualNumbers(t *testing.T) {
	e := parse.MustParse("2*x^3 + 3*sin(x) - 5*exp(2*x) + 1 + cos(3x) + 0.5*tan(x) - x^2")
	d, err := Expression(e, Strict)
	require.NoError(t, err)

	for _, x := range []float64{0.1, 0.4, 0.8, 1.1} {
		var want float64
		for _, term := range e.Terms() {
			want += dualOf(term, dual.Number{Real: x, Emag: 1}).Emag
		}
		got, err := d.Expr.Eval(x)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-9*math.Max(1, math.Abs(want)), "x=%g", x)
	}
}
