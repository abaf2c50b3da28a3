package parse

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Knetic/govaluate"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"

	"github.com/san-kum/derivlab/internal/expr"
)

func TestParseMixedExpression(t *testing.T) {
	got, err := Parse("2*x^3 + 3*sin(x) - 5*exp(2*x) + 1")
	require.NoError(t, err)

	want := []expr.Term{
		expr.Polynomial{Coef: 2, Exp: 3},
		expr.Trig{Fn: expr.Sin, Coef: 3, K: 1},
		expr.Exponential{Coef: -5, Rate: 2},
		expr.Constant{Value: 1},
	}
	if diff := cmp.Diff(want, got.Terms()); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAccepts(t *testing.T) {
	tests := []struct {
		in   string
		want []expr.Term
	}{
		{"x", []expr.Term{expr.Polynomial{Coef: 1, Exp: 1}}},
		{"-x^2", []expr.Term{expr.Polynomial{Coef: -1, Exp: 2}}},
		{"3x", []expr.Term{expr.Polynomial{Coef: 3, Exp: 1}}},
		{"X^2", []expr.Term{expr.Polynomial{Coef: 1, Exp: 2}}},
		{"5*x^0", []expr.Term{expr.Polynomial{Coef: 5, Exp: 0}}},
		{"x^+2", []expr.Term{expr.Polynomial{Coef: 1, Exp: 2}}},
		{"  2 * x ^ 3 ", []expr.Term{expr.Polynomial{Coef: 2, Exp: 3}}},
		{"1e-3*x", []expr.Term{expr.Polynomial{Coef: 0.001, Exp: 1}}},
		{"-.5", []expr.Term{expr.Constant{Value: -0.5}}},
		{"sin(x)", []expr.Term{expr.Trig{Fn: expr.Sin, Coef: 1, K: 1}}},
		{"-cos(2*x)", []expr.Term{expr.Trig{Fn: expr.Cos, Coef: -1, K: 2}}},
		{"0.5*tan(-x)", []expr.Term{expr.Trig{Fn: expr.Tan, Coef: 0.5, K: -1}}},
		{"2exp(3x)", []expr.Term{expr.Exponential{Coef: 2, Rate: 3}}},
		{"exp(-0.5*x)", []expr.Term{expr.Exponential{Coef: 1, Rate: -0.5}}},
		{
			"x^2 + 3*x^2",
			[]expr.Term{expr.Polynomial{Coef: 1, Exp: 2}, expr.Polynomial{Coef: 3, Exp: 2}},
		},
		{
			"3*x^2 - 5",
			[]expr.Term{expr.Polynomial{Coef: 3, Exp: 2}, expr.Constant{Value: -5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got.Terms()); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		in     string
		pos    int
		reason string
	}{
		{"", 0, "empty expression"},
		{"   ", 0, "empty expression"},
		{"x^-1", 2, "negative exponent"},
		{"x^1.5", 3, "must be an integer"},
		{"x^", 1, "missing exponent"},
		{"sin(x^2)", 4, "linear in x"},
		{"sin(2)", 4, "linear in x"},
		{"exp(x*x)", 4, "linear in x"},
		{"-", 0, "missing term after sign"},
		{"3 - - 5", 2, "missing term after sign"},
		{"sin(x", 3, "unbalanced '('"},
		{"x)", 1, "unbalanced ')'"},
		{"2*", 1, "missing factor"},
		{"log(x)", 0, "unrecognized term"},
		{"2*y", 2, "unrecognized term"},
		{"sin(x)^2", 6, "unexpected input"},
		{"x*sin(x)", 1, "after x"},
		{"1e999", 0, "malformed number"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Parse(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax))

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.pos, pe.Pos)
			assert.Contains(t, pe.Reason, tt.reason)
			assert.Equal(t, tt.in, pe.Input)
		})
	}
}

func TestParseStringRoundTrip(t *testing.T) {
	inputs := []string{
		"2*x^3 + 3*sin(x) - 5*exp(2*x) + 1",
		"-x + 0.25*cos(-3*x) - tan(x)",
		"7 - x^4 + exp(x)",
		"1e-07*x^2",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			first := MustParse(in)
			second, err := Parse(first.String())
			require.NoError(t, err)
			assert.Equal(t, first.Key(), second.Key())
		})
	}
}

// govaluate evaluates an independent rendering of each formula. It spells power
// as ** (^ is XOR there); formulas only add so associativity never matters.
func TestParseMatchesIndependentEvaluator(t *testing.T) {
	funcs := map[string]govaluate.ExpressionFunction{
		"sin": unary(math.Sin),
		"cos": unary(math.Cos),
		"tan": unary(math.Tan),
		"exp": unary(math.Exp),
	}

	tests := []struct {
		in      string
		formula string
	}{
		{"2*x^3 + 3*sin(x) - 5*exp(2*x) + 1", "2*x**3 + 3*sin(x) + (-5)*exp(2*x) + 1"},
		{"x^2 - 4*x + 4", "x**2 + (-4)*x + 4"},
		{"0.5*cos(3*x) - tan(0.25*x)", "0.5*cos(3*x) + (-1)*tan(0.25*x)"},
		{"-exp(-x) + 2", "(-1)*exp((-1)*x) + 2"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e := MustParse(tt.in)
			ev, err := govaluate.NewEvaluableExpressionWithFunctions(tt.formula, funcs)
			require.NoError(t, err)

			for x := -1.5; x <= 1.5; x += 0.1 {
				want, err := ev.Evaluate(map[string]interface{}{"x": x})
				require.NoError(t, err)
				got, err := e.Eval(x)
				require.NoError(t, err)
				if math.Abs(got-want.(float64)) > 1e-9 {
					t.Errorf("x=%v: got %v, want %v", x, got, want)
				}
			}
		})
	}
}

func unary(fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		return fn(args[0].(float64)), nil
	}
}

func TestParseErrorHighlight(t *testing.T) {
	inputs := []string{
		"2*x^-1 + 3",
		"sin(x^2) + x",
		"x + log(x)",
	}

	var out []string
	for _, in := range inputs {
		_, err := Parse(in)
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		out = append(out, pe.Highlight())
	}
	golden.Assert(t, strings.Join(out, "\n\n")+"\n", "highlight.golden")
}
