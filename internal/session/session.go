// Package session runs the parse, differentiate and sample pipeline with a
// shared evaluation cache and the user's configuration.
package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/derivlab/internal/config"
	"github.com/san-kum/derivlab/internal/deriv"
	"github.com/san-kum/derivlab/internal/eval"
	"github.com/san-kum/derivlab/internal/expr"
	"github.com/san-kum/derivlab/internal/parse"
	"github.com/san-kum/derivlab/internal/storage"
)

type Session struct {
	cfg    *config.Config
	cache  *eval.Cache
	logger *zap.Logger
}

// New builds a session. The cache logs every miss at debug level.
func New(cfg *config.Config, logger *zap.Logger) *Session {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timing := func(key string, d time.Duration) {
		logger.Debug("cache miss", zap.String("expr", key), zap.Duration("took", d))
	}
	return &Session{
		cfg:    cfg,
		cache:  eval.NewCache(nil, eval.WithEpsilon(cfg.Epsilon), eval.WithTiming(timing)),
		logger: logger,
	}
}

func (s *Session) Config() *config.Config { return s.cfg }
func (s *Session) Cache() *eval.Cache     { return s.cache }

type Derivation struct {
	Input      string
	F          expr.Expression
	DF         expr.Expression
	Order      int
	Policy     deriv.Policy
	Simplified bool
	Skipped    []*deriv.UnsupportedDerivative
	Elapsed    time.Duration
}

// Derive parses text and differentiates it order times. With simplify set in
// the config, same-exponent powers are collected in both input and result.
func (s *Session) Derive(text string, order int) (*Derivation, error) {
	start := time.Now()
	f, err := parse.Parse(text)
	if err != nil {
		return nil, err
	}
	if s.cfg.Simplify {
		f = expr.Collect(f)
	}

	policy := s.cfg.DerivPolicy()
	res, err := deriv.Nth(f, order, policy, deriv.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	df := res.Expr
	if s.cfg.Simplify {
		df = expr.Collect(df)
	}

	d := &Derivation{
		Input:      text,
		F:          f,
		DF:         df,
		Order:      order,
		Policy:     policy,
		Simplified: s.cfg.Simplify,
		Skipped:    res.Skipped,
		Elapsed:    time.Since(start),
	}
	s.logger.Debug("derived",
		zap.String("f", f.String()),
		zap.String("df", df.String()),
		zap.Int("order", order),
		zap.Duration("elapsed", d.Elapsed))
	return d, nil
}

type Run struct {
	*Derivation
	XMin, XMax float64
	Steps      int
	FS, DFS    eval.Series
	Elapsed    time.Duration
	Stats      eval.Stats
}

// Sample evaluates f and its derivative over the configured range
// concurrently.
func (s *Session) Sample(ctx context.Context, d *Derivation) (*Run, error) {
	r := s.cfg.Range
	start := time.Now()
	fs, dfs, err := eval.SamplePair(ctx, s.cache, d.F, d.DF, r.XMin, r.XMax, r.Steps)
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", d.F, err)
	}
	run := &Run{
		Derivation: d,
		XMin:       r.XMin,
		XMax:       r.XMax,
		Steps:      r.Steps,
		FS:         fs,
		DFS:        dfs,
		Elapsed:    time.Since(start),
		Stats:      s.cache.Stats(),
	}
	if n := len(fs.Warnings) + len(dfs.Warnings); n > 0 {
		s.logger.Warn("singular points in range",
			zap.Int("f", len(fs.Warnings)),
			zap.Int("df", len(dfs.Warnings)))
	}
	s.logger.Debug("sampled",
		zap.Int("steps", r.Steps),
		zap.Duration("elapsed", run.Elapsed),
		zap.Uint64("cache_hits", run.Stats.Hits),
		zap.Uint64("cache_misses", run.Stats.Misses))
	return run, nil
}

func (r *Run) Warnings() int {
	return len(r.FS.Warnings) + len(r.DFS.Warnings)
}

// Record converts the run into what storage persists.
func (r *Run) Record() (storage.RunMetadata, storage.Samples) {
	skipped := make([]string, len(r.Skipped))
	for i, ud := range r.Skipped {
		skipped[i] = ud.Term.String()
	}
	meta := storage.RunMetadata{
		Input:      r.Input,
		Expression: r.F.String(),
		Derivative: r.DF.String(),
		Order:      r.Order,
		Policy:     r.Policy.String(),
		Simplified: r.Simplified,
		Skipped:    skipped,
		XMin:       r.XMin,
		XMax:       r.XMax,
		Steps:      r.Steps,
		Warnings:   r.Warnings(),
		ElapsedMS:  float64(r.Derivation.Elapsed+r.Elapsed) / float64(time.Millisecond),
		CacheHits:  r.Stats.Hits,
		CacheMiss:  r.Stats.Misses,
	}
	return meta, storage.SamplesFromSeries(r.FS, r.DFS)
}
