// Package eval evaluates expressions through a memoizing cache and samples
// them over ranges.
package eval

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/san-kum/derivlab/internal/expr"
)

// Evaluator computes e at x. A *expr.DomainWarning error comes with a NaN
// value and is not fatal.
type Evaluator interface {
	Evaluate(e expr.Expression, x float64) (float64, error)
}

// Func adapts a plain function to Evaluator.
type Func func(e expr.Expression, x float64) (float64, error)

func (f Func) Evaluate(e expr.Expression, x float64) (float64, error) {
	return f(e, x)
}

// Direct evaluates without caching.
var Direct Evaluator = Func(func(e expr.Expression, x float64) (float64, error) {
	return e.Eval(x)
})

type cacheKey struct {
	expr string
	x    uint64
}

type entry struct {
	value float64
	warn  error
}

type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// Cache memoizes evaluations keyed by the expression's structural key and the
// bit pattern of x, so -0 and +0 are distinct and NaN inputs still hit.
type Cache struct {
	mu      sync.Mutex
	fn      Func
	eps     float64
	timing  func(key string, d time.Duration)
	entries map[cacheKey]entry
	hits    uint64
	misses  uint64
}

type Option func(*Cache)

// WithTiming installs a hook called after every miss with the expression key
// and the time the underlying evaluation took.
func WithTiming(hook func(key string, d time.Duration)) Option {
	return func(c *Cache) { c.timing = hook }
}

// WithEpsilon sets the singularity tolerance of the default evaluation
// function. It has no effect when fn is supplied to NewCache.
func WithEpsilon(eps float64) Option {
	return func(c *Cache) {
		if eps > 0 {
			c.eps = eps
		}
	}
}

// NewCache wraps fn. A nil fn evaluates with Expression.EvalEps.
func NewCache(fn Func, opts ...Option) *Cache {
	c := &Cache{
		fn:      fn,
		eps:     expr.SingularEpsilon,
		entries: make(map[cacheKey]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fn == nil {
		eps := c.eps
		c.fn = func(e expr.Expression, x float64) (float64, error) {
			return e.EvalEps(x, eps)
		}
	}
	return c
}

func (c *Cache) Evaluate(e expr.Expression, x float64) (float64, error) {
	k := cacheKey{expr: e.Key(), x: math.Float64bits(x)}

	c.mu.Lock()
	if en, ok := c.entries[k]; ok {
		c.hits++
		c.mu.Unlock()
		return en.value, en.warn
	}
	c.misses++
	c.mu.Unlock()

	start := time.Now()
	v, err := c.fn(e, x)
	if c.timing != nil {
		c.timing(k.expr, time.Since(start))
	}
	if err != nil && !expr.IsDomainWarning(err) {
		return v, err
	}

	c.mu.Lock()
	c.entries[k] = entry{value: v, warn: err}
	c.mu.Unlock()
	return v, err
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]entry)
	c.hits, c.misses = 0, 0
}

// warning extracts the domain warning from an evaluation error, if any.
func warning(err error) *expr.DomainWarning {
	var dw *expr.DomainWarning
	if errors.As(err, &dw) {
		return dw
	}
	return nil
}
