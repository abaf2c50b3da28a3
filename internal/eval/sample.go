package eval

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/derivlab/internal/expr"
)

var ErrInvalidRange = errors.New("eval: invalid range")

type Point struct {
	X       float64
	Y       float64
	Warning *expr.DomainWarning
}

type Series struct {
	Points   []Point
	Warnings []*expr.DomainWarning
}

func ValidateRange(xMin, xMax float64, steps int) error {
	switch {
	case steps < 1:
		return fmt.Errorf("%w: steps must be at least 1, got %d", ErrInvalidRange, steps)
	case math.IsNaN(xMin) || math.IsInf(xMin, 0) || math.IsNaN(xMax) || math.IsInf(xMax, 0):
		return fmt.Errorf("%w: bounds must be finite, got [%g, %g]", ErrInvalidRange, xMin, xMax)
	case xMax < xMin:
		return fmt.Errorf("%w: xmax %g is below xmin %g", ErrInvalidRange, xMax, xMin)
	}
	return nil
}

// GridX returns the i-th of steps evenly spaced points on [xMin, xMax]. The
// last point is exactly xMax.
func GridX(xMin, xMax float64, steps, i int) float64 {
	if steps == 1 || i == 0 {
		return xMin
	}
	if i == steps-1 {
		return xMax
	}
	return xMin + (xMax-xMin)*float64(i)/float64(steps-1)
}

// SampleRange lazily evaluates e at steps evenly spaced points including both
// ends. Domain warnings are attached to their point and never stop the
// sequence. An invalid range yields nothing; check it with ValidateRange.
func SampleRange(ev Evaluator, e expr.Expression, xMin, xMax float64, steps int) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		if ValidateRange(xMin, xMax, steps) != nil {
			return
		}
		for i := 0; i < steps; i++ {
			x := GridX(xMin, xMax, steps, i)
			y, err := ev.Evaluate(e, x)
			p := Point{X: x, Y: y}
			if err != nil {
				p.Y = math.NaN()
				p.Warning = warning(err)
			}
			if !yield(p) {
				return
			}
		}
	}
}

func Collect(seq iter.Seq[Point]) Series {
	var s Series
	for p := range seq {
		s.Points = append(s.Points, p)
		if p.Warning != nil {
			s.Warnings = append(s.Warnings, p.Warning)
		}
	}
	return s
}

func (s Series) Xs() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.X
	}
	return out
}

func (s Series) Ys() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Y
	}
	return out
}

// Bounds returns the smallest and largest finite Y. ok is false when no point
// is finite.
func (s Series) Bounds() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range s.Points {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			continue
		}
		lo = math.Min(lo, p.Y)
		hi = math.Max(hi, p.Y)
		ok = true
	}
	return lo, hi, ok
}

// SamplePair samples f and df concurrently over the same grid. Both share ev,
// which must be safe for concurrent use.
func SamplePair(ctx context.Context, ev Evaluator, f, df expr.Expression, xMin, xMax float64, steps int) (Series, Series, error) {
	if err := ValidateRange(xMin, xMax, steps); err != nil {
		return Series{}, Series{}, err
	}

	var fs, dfs Series
	g, ctx := errgroup.WithContext(ctx)
	collect := func(e expr.Expression, dst *Series) func() error {
		return func() error {
			var s Series
			for p := range SampleRange(ev, e, xMin, xMax, steps) {
				if err := ctx.Err(); err != nil {
					return err
				}
				s.Points = append(s.Points, p)
				if p.Warning != nil {
					s.Warnings = append(s.Warnings, p.Warning)
				}
			}
			*dst = s
			return nil
		}
	}
	g.Go(collect(f, &fs))
	g.Go(collect(df, &dfs))
	if err := g.Wait(); err != nil {
		return Series{}, Series{}, err
	}
	return fs, dfs, nil
}
