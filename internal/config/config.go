package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/derivlab/internal/deriv"
	"github.com/san-kum/derivlab/internal/eval"
	"github.com/san-kum/derivlab/internal/expr"
)

const (
	DefaultXMin       = -10.0
	DefaultXMax       = 10.0
	DefaultSteps      = 1000
	DefaultPlotHeight = 15
	DefaultPlotWidth  = 72
	DefaultFrames     = 100
	DefaultIntervalMS = 50
	DefaultTheme      = "default"
)

type Config struct {
	Range     RangeConfig     `yaml:"range" toml:"range"`
	Epsilon   float64         `yaml:"epsilon" toml:"epsilon"`
	Policy    string          `yaml:"policy" toml:"policy"`
	Simplify  bool            `yaml:"simplify" toml:"simplify"`
	Plot      PlotConfig      `yaml:"plot" toml:"plot"`
	Animation AnimationConfig `yaml:"animation" toml:"animation"`
	Theme     string          `yaml:"theme" toml:"theme"`
}

type RangeConfig struct {
	XMin  float64 `yaml:"xmin" toml:"xmin"`
	XMax  float64 `yaml:"xmax" toml:"xmax"`
	Steps int     `yaml:"steps" toml:"steps"`
}

type PlotConfig struct {
	Height int `yaml:"height" toml:"height"`
	Width  int `yaml:"width" toml:"width"`
}

type AnimationConfig struct {
	Frames     int  `yaml:"frames" toml:"frames"`
	IntervalMS int  `yaml:"interval_ms" toml:"interval_ms"`
	Derivative bool `yaml:"derivative" toml:"derivative"`
}

func DefaultConfig() *Config {
	return &Config{
		Range: RangeConfig{
			XMin:  DefaultXMin,
			XMax:  DefaultXMax,
			Steps: DefaultSteps,
		},
		Epsilon: expr.SingularEpsilon,
		Policy:  deriv.Strict.String(),
		Plot: PlotConfig{
			Height: DefaultPlotHeight,
			Width:  DefaultPlotWidth,
		},
		Animation: AnimationConfig{
			Frames:     DefaultFrames,
			IntervalMS: DefaultIntervalMS,
			Derivative: true,
		},
		Theme: DefaultTheme,
	}
}

// Load reads a YAML or TOML file (by extension) over the defaults.
func Load(path string) (*Config, error) {
	return Merge(path, DefaultConfig())
}

// Merge reads path over cfg. Keys absent from the file keep cfg's values.
func Merge(path string, cfg *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isTOML(path) {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(cfg); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func (c *Config) Validate() error {
	if err := eval.ValidateRange(c.Range.XMin, c.Range.XMax, c.Range.Steps); err != nil {
		return err
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be positive, got %g", c.Epsilon)
	}
	if _, err := deriv.ParsePolicy(c.Policy); err != nil {
		return err
	}
	if c.Plot.Height < 1 || c.Plot.Width < 1 {
		return fmt.Errorf("plot size must be positive, got %dx%d", c.Plot.Width, c.Plot.Height)
	}
	if c.Animation.Frames < 1 || c.Animation.IntervalMS < 1 {
		return fmt.Errorf("animation needs at least one frame and a positive interval")
	}
	return nil
}

func (c *Config) DerivPolicy() deriv.Policy {
	p, _ := deriv.ParsePolicy(c.Policy)
	return p
}

// ApplyPreset replaces the sampling range with a named preset.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("unknown preset %q", name)
	}
	c.Range = p.Range
	return nil
}
