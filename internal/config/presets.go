package config

import (
	"math"
	"sort"
)

type Preset struct {
	Description string
	Range       RangeConfig
}

var Presets = map[string]*Preset{
	"default": {
		Description: "symmetric window around the origin",
		Range:       RangeConfig{XMin: DefaultXMin, XMax: DefaultXMax, Steps: DefaultSteps},
	},
	"unit": {
		Description: "[-1, 1], close look at the origin",
		Range:       RangeConfig{XMin: -1, XMax: 1, Steps: 200},
	},
	"period": {
		Description: "one period of sin and cos",
		Range:       RangeConfig{XMin: 0, XMax: 2 * math.Pi, Steps: 400},
	},
	"trig": {
		Description: "two periods either side of zero",
		Range:       RangeConfig{XMin: -2 * math.Pi, XMax: 2 * math.Pi, Steps: 800},
	},
	"tan": {
		Description: "one tan branch, stopping short of the asymptotes",
		Range:       RangeConfig{XMin: -1.4, XMax: 1.4, Steps: 300},
	},
	"exp": {
		Description: "narrow window where exponentials stay readable",
		Range:       RangeConfig{XMin: -3, XMax: 3, Steps: 600},
	},
	"wide": {
		Description: "large window for polynomial end behaviour",
		Range:       RangeConfig{XMin: -100, XMax: 100, Steps: 2000},
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
