package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/derivlab/internal/config"
	"github.com/san-kum/derivlab/internal/session"
	"github.com/san-kum/derivlab/internal/storage"
	"github.com/san-kum/derivlab/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool
	xMin       float64
	xMax       float64
	steps      int
	theme      string

	// derive
	order           int
	skipUnsupported bool
	simplify        bool
	dump            bool
	save            bool

	// svg
	outFile   string
	svgWidth  int
	svgHeight int

	logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "derivlab",
		Short: "symbolic derivatives of single-variable expressions",
		Long: `derivlab parses sums of constants, powers of x, sin/cos/tan and exp of a
linear argument, differentiates them term by term and plots the result.

Run without arguments for an interactive prompt.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// the prompt owns the terminal
			if cmd.Root() == cmd {
				return nil
			}
			zc := zap.NewProductionConfig()
			if verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return viz.RunPrompt(session.New(cfg, logger), viz.GetTheme(cfg.Theme))
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".derivlab", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	pf.StringVar(&preset, "preset", "", "range preset (see presets)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.Float64Var(&xMin, "xmin", config.DefaultXMin, "lower end of the sampling range")
	pf.Float64Var(&xMax, "xmax", config.DefaultXMax, "upper end of the sampling range")
	pf.IntVar(&steps, "steps", config.DefaultSteps, "number of sample points")
	pf.StringVar(&theme, "theme", config.DefaultTheme, fmt.Sprintf("colour theme %v", viz.ThemeNames()))
	pf.IntVar(&order, "order", 1, "derivative order")
	pf.BoolVar(&skipUnsupported, "skip-unsupported", false, "drop terms without a derivative rule instead of failing")
	pf.BoolVar(&simplify, "simplify", false, "collect same-exponent powers of x")

	deriveCmd := &cobra.Command{
		Use:   "derive [expr]",
		Short: "print an expression and its derivative",
		Args:  cobra.ExactArgs(1),
		RunE:  runDerive,
	}
	deriveCmd.Flags().BoolVar(&dump, "dump", false, "dump the parsed terms")
	deriveCmd.Flags().BoolVar(&save, "save", false, "sample and save the run")

	evalCmd := &cobra.Command{
		Use:   "eval [expr] [x]...",
		Short: "evaluate an expression and its derivative at points",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runEval,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [expr]",
		Short: "plot an expression and its derivative",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlot,
	}

	animateCmd := &cobra.Command{
		Use:   "animate [expr]",
		Short: "draw an expression progressively",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnimate,
	}

	sampleCmd := &cobra.Command{
		Use:   "sample [expr]",
		Short: "write x,f,df samples as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  runSample,
	}

	checkCmd := &cobra.Command{
		Use:   "check [expr]",
		Short: "compare the symbolic derivative with finite differences",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [expr]",
		Short: "write an SVG plot of an expression and its derivative",
		Args:  cobra.ExactArgs(1),
		RunE:  runSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "output", "o", "-", "output file, - for stdout")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list range presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(deriveCmd, evalCmd, plotCmd, animateCmd, sampleCmd, checkCmd, svgCmd, listCmd, showCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers defaults, preset, config file and explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
	}
	if configFile != "" {
		var err error
		if cfg, err = config.Merge(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("xmin") {
		cfg.Range.XMin = xMin
	}
	if flags.Changed("xmax") {
		cfg.Range.XMax = xMax
	}
	if flags.Changed("steps") {
		cfg.Range.Steps = steps
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if skipUnsupported {
		cfg.Policy = "skip"
	}
	if simplify {
		cfg.Simplify = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSession(cmd *cobra.Command) (*session.Session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return session.New(cfg, logger), nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir, storage.WithLogger(logger))
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}
