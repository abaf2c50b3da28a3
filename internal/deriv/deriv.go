// Package deriv implements symbolic differentiation of expr values.
//
// Each term maps to zero, one or two output terms and an expression's
// derivative is the concatenation of its terms' derivatives in source order.
// Terms without a rule (currently the sec² form produced by tan) raise
// [*UnsupportedDerivative]; the [Policy] decides whether that aborts the
// expression or is skipped with a warning.
package deriv

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/san-kum/derivlab/internal/expr"
)

type Policy int

const (
	// Strict fails the whole expression on the first unsupported term.
	Strict Policy = iota
	// Skip drops unsupported terms and reports them in Result.Skipped.
	Skip
)

func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Skip:
		return "skip"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "strict":
		return Strict, nil
	case "skip":
		return Skip, nil
	}
	return Strict, fmt.Errorf("deriv: unknown policy %q (want strict or skip)", s)
}

type Result struct {
	Expr    expr.Expression
	Skipped []*UnsupportedDerivative
}

type Engine struct {
	policy Policy
	logger *zap.Logger
}

type Option func(*Engine)

func WithPolicy(p Policy) Option {
	return func(e *Engine) { e.policy = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{policy: Strict, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Term returns the derivative of a single term. Constants and x⁰ vanish and
// produce no term at all rather than a zero constant.
func Term(t expr.Term) ([]expr.Term, error) {
	switch v := t.(type) {
	case expr.Constant:
		return nil, nil
	case expr.Polynomial:
		if v.Exp == 0 {
			return nil, nil
		}
		return []expr.Term{expr.Polynomial{Coef: v.Coef * float64(v.Exp), Exp: v.Exp - 1}}, nil
	case expr.Trig:
		switch v.Fn {
		case expr.Sin:
			return []expr.Term{expr.Trig{Fn: expr.Cos, Coef: v.Coef * v.K, K: v.K}}, nil
		case expr.Cos:
			return []expr.Term{expr.Trig{Fn: expr.Sin, Coef: -v.Coef * v.K, K: v.K}}, nil
		case expr.Tan:
			return []expr.Term{expr.Special{Form: expr.Sec2, Coef: v.Coef * v.K, K: v.K}}, nil
		}
	case expr.Exponential:
		return []expr.Term{expr.Exponential{Coef: v.Coef * v.Rate, Rate: v.Rate}}, nil
	case expr.Special:
		// No second-derivative rules.
	}
	return nil, &UnsupportedDerivative{Term: t}
}

// Differentiate maps e to its derivative without touching e.
func (en *Engine) Differentiate(e expr.Expression) (Result, error) {
	out := make([]expr.Term, 0, e.Len())
	var skipped []*UnsupportedDerivative

	for _, t := range e.Terms() {
		dt, err := Term(t)
		if err != nil {
			ud, ok := err.(*UnsupportedDerivative)
			if !ok || en.policy == Strict {
				return Result{}, err
			}
			en.logger.Warn("skipping term without derivative rule",
				zap.String("term", t.String()),
				zap.String("kind", string(t.Kind())))
			skipped = append(skipped, ud)
			continue
		}
		out = append(out, dt...)
	}

	en.logger.Debug("differentiated expression",
		zap.String("input", e.String()),
		zap.Int("terms_in", e.Len()),
		zap.Int("terms_out", len(out)),
		zap.Int("skipped", len(skipped)))

	return Result{Expr: expr.New(out...), Skipped: skipped}, nil
}

// Nth applies Differentiate n times. n == 0 returns e itself. Skipped terms
// accumulate across rounds.
func (en *Engine) Nth(e expr.Expression, n int) (Result, error) {
	if n < 0 {
		return Result{}, fmt.Errorf("deriv: order must be non-negative, got %d", n)
	}
	res := Result{Expr: e}
	for i := 0; i < n; i++ {
		next, err := en.Differentiate(res.Expr)
		if err != nil {
			return Result{}, fmt.Errorf("order %d: %w", i+1, err)
		}
		res.Expr = next.Expr
		res.Skipped = append(res.Skipped, next.Skipped...)
	}
	return res, nil
}

// Expression differentiates e once under policy.
func Expression(e expr.Expression, policy Policy, opts ...Option) (Result, error) {
	return New(append(opts, WithPolicy(policy))...).Differentiate(e)
}

// Nth differentiates e n times under policy.
func Nth(e expr.Expression, n int, policy Policy, opts ...Option) (Result, error) {
	return New(append(opts, WithPolicy(policy))...).Nth(e, n)
}
