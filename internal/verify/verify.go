// Package verify cross-checks a symbolic derivative against numeric
// differentiation of the original expression.
package verify

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"

	"github.com/san-kum/derivlab/internal/eval"
	"github.com/san-kum/derivlab/internal/expr"
)

const DefaultTolerance = 1e-5

type Settings struct {
	// Formula defaults to fd.Central.
	Formula fd.Formula
	// Step is the finite difference step; zero lets fd choose.
	Step float64
	// Tolerance bounds |symbolic - numeric| / max(1, |symbolic|).
	Tolerance float64
}

type Mismatch struct {
	X        float64
	Symbolic float64
	Numeric  float64
	RelErr   float64
}

type Report struct {
	Compared   int
	Skipped    int
	MaxRelErr  float64
	Worst      Mismatch
	Mismatches []Mismatch
	Tolerance  float64
}

func (r Report) OK() bool {
	return len(r.Mismatches) == 0
}

func (r Report) String() string {
	if r.Compared == 0 {
		return fmt.Sprintf("no comparable points (%d skipped)", r.Skipped)
	}
	return fmt.Sprintf("%d points compared, %d skipped, max rel err %.3g at x=%g (tol %g)",
		r.Compared, r.Skipped, r.MaxRelErr, r.Worst.X, r.Tolerance)
}

// Derivative compares df (evaluated through ev) with a finite difference of f
// at each grid point. Points where either side is not finite are skipped.
func Derivative(ev eval.Evaluator, f, df expr.Expression, xMin, xMax float64, steps int, s *Settings) (Report, error) {
	if err := eval.ValidateRange(xMin, xMax, steps); err != nil {
		return Report{}, err
	}
	if s == nil {
		s = &Settings{}
	}
	formula := s.Formula
	if formula.Stencil == nil {
		formula = fd.Central
	}
	tol := s.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}

	settings := &fd.Settings{Formula: formula, Step: s.Step}
	fn := f.Func()
	rep := Report{Tolerance: tol}

	for p := range eval.SampleRange(ev, df, xMin, xMax, steps) {
		num := fd.Derivative(fn, p.X, settings)
		if !finite(p.Y) || !finite(num) {
			rep.Skipped++
			continue
		}
		rep.Compared++
		rel := math.Abs(p.Y-num) / math.Max(1, math.Abs(p.Y))
		m := Mismatch{X: p.X, Symbolic: p.Y, Numeric: num, RelErr: rel}
		if rel > rep.MaxRelErr || rep.Compared == 1 {
			rep.MaxRelErr = rel
			rep.Worst = m
		}
		if rel > tol {
			rep.Mismatches = append(rep.Mismatches, m)
		}
	}
	return rep, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
