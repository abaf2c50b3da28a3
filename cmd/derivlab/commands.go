package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/derivlab/internal/config"
	"github.com/san-kum/derivlab/internal/export"
	"github.com/san-kum/derivlab/internal/expr"
	"github.com/san-kum/derivlab/internal/parse"
	"github.com/san-kum/derivlab/internal/session"
	"github.com/san-kum/derivlab/internal/verify"
	"github.com/san-kum/derivlab/internal/viz"
)

// derivLabel names the n-th derivative, f'(x) up to the third and f^(n)(x)
// beyond.
func derivLabel(n int) string {
	switch {
	case n == 0:
		return "f(x)"
	case n <= 3:
		return "f" + strings.Repeat("'", n) + "(x)"
	}
	return fmt.Sprintf("f^(%d)(x)", n)
}

// derive runs the pipeline and prints parse errors with a caret.
func derive(s *session.Session, text string) (*session.Derivation, error) {
	d, err := s.Derive(text, order)
	if err != nil {
		var pe *parse.ParseError
		if errors.As(err, &pe) {
			fmt.Fprintln(os.Stderr, pe.Highlight())
		}
		return nil, err
	}
	for _, ud := range d.Skipped {
		fmt.Fprintf(os.Stderr, "warning: skipped %s (no derivative rule)\n", ud.Term)
	}
	return d, nil
}

func deriveAndSample(cmd *cobra.Command, text string) (*session.Session, *session.Run, error) {
	s, err := newSession(cmd)
	if err != nil {
		return nil, nil, err
	}
	d, err := derive(s, text)
	if err != nil {
		return nil, nil, err
	}
	run, err := s.Sample(cmd.Context(), d)
	if err != nil {
		return nil, nil, err
	}
	return s, run, nil
}

func runDerive(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	start := time.Now()
	d, err := derive(s, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%-10s = %s\n", "f(x)", d.F)
	fmt.Printf("%-10s = %s\n", derivLabel(order), d.DF)
	if dump {
		fmt.Println()
		fmt.Printf("%# v\n", pretty.Formatter(d.F.Terms()))
		fmt.Printf("%# v\n", pretty.Formatter(d.DF.Terms()))
	}

	if save {
		run, err := s.Sample(cmd.Context(), d)
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		runID, err := st.Save(run.Record())
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
		if n := run.Warnings(); n > 0 {
			fmt.Printf("singular points: %d\n", n)
		}
	}
	fmt.Printf("completed in %v\n", time.Since(start))
	return nil
}

func runEval(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	d, err := derive(s, args[0])
	if err != nil {
		return err
	}

	xs := make([]float64, len(args)-1)
	for i, a := range args[1:] {
		if xs[i], err = strconv.ParseFloat(a, 64); err != nil {
			return fmt.Errorf("invalid point %q: %w", a, err)
		}
	}

	cache := s.Cache()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "X\t%s\t%s\tNOTE\n", "f(x)", derivLabel(order))
	for _, x := range xs {
		fv, ferr := cache.Evaluate(d.F, x)
		dv, derr := cache.Evaluate(d.DF, x)
		var notes []string
		for _, e := range []error{ferr, derr} {
			if e == nil {
				continue
			}
			if !expr.IsDomainWarning(e) {
				return e
			}
			notes = append(notes, e.Error())
		}
		fmt.Fprintf(w, "%g\t%g\t%g\t%s\n", x, fv, dv, strings.Join(notes, "; "))
	}
	st := cache.Stats()
	logger.Debug("cache", zap.Uint64("hits", st.Hits), zap.Uint64("misses", st.Misses))
	return w.Flush()
}

func runPlot(cmd *cobra.Command, args []string) error {
	s, run, err := deriveAndSample(cmd, args[0])
	if err != nil {
		return err
	}
	cfg := s.Config()

	fmt.Printf("%s = %s\n", "f(x)", run.F)
	fmt.Printf("%s = %s\n", derivLabel(order), run.DF)
	fmt.Printf("range: [%g, %g], %d samples\n\n", run.XMin, run.XMax, run.Steps)
	fmt.Print(viz.GraphPair(run.FS, run.DFS, "f(x)", derivLabel(order), cfg.Plot.Width, cfg.Plot.Height))
	if n := run.Warnings(); n > 0 {
		fmt.Printf("\n%d singular points left as gaps\n", n)
	}
	return nil
}

func runAnimate(cmd *cobra.Command, args []string) error {
	s, run, err := deriveAndSample(cmd, args[0])
	if err != nil {
		return err
	}
	cfg := s.Config()
	m := viz.NewAnimation(run.FS, run.DFS, run.XMin, run.XMax, viz.AnimationOptions{
		Title:      fmt.Sprintf("f(x) = %s    %s = %s", run.F, derivLabel(order), run.DF),
		Frames:     cfg.Animation.Frames,
		Interval:   time.Duration(cfg.Animation.IntervalMS) * time.Millisecond,
		Derivative: cfg.Animation.Derivative,
		Width:      cfg.Plot.Width,
		Height:     cfg.Plot.Height,
		Theme:      viz.GetTheme(cfg.Theme),
	})
	return viz.RunAnimation(m)
}

func runSample(cmd *cobra.Command, args []string) error {
	_, run, err := deriveAndSample(cmd, args[0])
	if err != nil {
		return err
	}
	_, samples := run.Record()
	return writeCSV(os.Stdout, samples.X, samples.F, samples.DF)
}

func writeCSV(out io.Writer, xs, fs, dfs []float64) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"x", "f", "df"}); err != nil {
		return err
	}
	for i := range xs {
		row := []string{
			strconv.FormatFloat(xs[i], 'g', -1, 64),
			strconv.FormatFloat(fs[i], 'g', -1, 64),
			strconv.FormatFloat(dfs[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	if order < 1 {
		return fmt.Errorf("check needs --order of at least 1")
	}
	d, err := derive(s, args[0])
	if err != nil {
		return err
	}
	prev, err := s.Derive(args[0], order-1)
	if err != nil {
		return err
	}

	r := s.Config().Range
	rep, err := verify.Derivative(s.Cache(), prev.DF, d.DF, r.XMin, r.XMax, r.Steps, nil)
	if err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", derivLabel(order), d.DF)
	fmt.Println(rep)
	if !rep.OK() {
		for _, m := range rep.Mismatches {
			fmt.Printf("  x=%-12g symbolic=%-14g numeric=%-14g rel=%.3g\n", m.X, m.Symbolic, m.Numeric, m.RelErr)
		}
		return fmt.Errorf("%d points exceed tolerance %g", len(rep.Mismatches), rep.Tolerance)
	}
	return nil
}

func runSVG(cmd *cobra.Command, args []string) error {
	_, run, err := deriveAndSample(cmd, args[0])
	if err != nil {
		return err
	}
	opts := export.SVGOptions{
		Width:  svgWidth,
		Height: svgHeight,
		XMin:   run.XMin,
		XMax:   run.XMax,
		Title:  fmt.Sprintf("[%g, %g]", run.XMin, run.XMax),
	}
	fLabel := "f(x) = " + run.F.String()
	dfLabel := derivLabel(order) + " = " + run.DF.String()

	if outFile == "-" {
		return export.WriteSVG(os.Stdout, run.FS, run.DFS, fLabel, dfLabel, opts)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WriteSVG(f, run.FS, run.DFS, fLabel, dfLabel, opts); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tEXPRESSION\tDERIVATIVE\tORDER\tRANGE\tWARN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t[%g, %g]\t%d\n",
			shortID(run.ID),
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Expression,
			run.Derivative,
			run.Order,
			run.XMin, run.XMax,
			run.Warnings,
		)
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	runID, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("time: %s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Printf("input: %s\n", meta.Input)
	fmt.Printf("f(x) = %s\n", meta.Expression)
	fmt.Printf("%s = %s\n", derivLabel(meta.Order), meta.Derivative)
	fmt.Printf("policy: %s  simplified: %t\n", meta.Policy, meta.Simplified)
	for _, sk := range meta.Skipped {
		fmt.Printf("skipped: %s\n", sk)
	}
	fmt.Printf("range: [%g, %g], %d samples, %d singular\n", meta.XMin, meta.XMax, meta.Steps, meta.Warnings)
	fmt.Printf("elapsed: %.3fms  cache: %d hits / %d misses\n\n", meta.ElapsedMS, meta.CacheHits, meta.CacheMiss)

	fs, dfs := samples.Series()
	fmt.Print(viz.GraphPair(fs, dfs, "f(x)", derivLabel(meta.Order), config.DefaultPlotWidth, config.DefaultPlotHeight))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	runID, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	return st.ExportJSON(os.Stdout, runID)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tXMIN\tXMAX\tSTEPS\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%d\t%s\n", name, p.Range.XMin, p.Range.XMax, p.Range.Steps, p.Description)
	}
	return w.Flush()
}
