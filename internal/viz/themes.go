package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour scheme for plots and the prompt.
type Theme struct {
	Name    string
	Curve   lipgloss.Color
	Deriv   lipgloss.Color
	Axis    lipgloss.Color
	Title   lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeDefault = Theme{
		Name:    "default",
		Curve:   lipgloss.Color("#00ccff"),
		Deriv:   lipgloss.Color("#ff5f87"),
		Axis:    lipgloss.Color("#444466"),
		Title:   lipgloss.Color("#00cccc"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeRetro = Theme{
		Name:    "retro",
		Curve:   lipgloss.Color("#00ff00"), // green phosphor
		Deriv:   lipgloss.Color("#88ff88"),
		Axis:    lipgloss.Color("#005500"),
		Title:   lipgloss.Color("#00ff00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Curve:   lipgloss.Color("#ffffff"),
		Deriv:   lipgloss.Color("#0088ff"),
		Axis:    lipgloss.Color("#555555"),
		Title:   lipgloss.Color("#ffffff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Curve:   lipgloss.Color("#00a8cc"),
		Deriv:   lipgloss.Color("#ffd700"),
		Axis:    lipgloss.Color("#4488aa"),
		Title:   lipgloss.Color("#0077be"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Curve:   lipgloss.Color("#feca57"),
		Deriv:   lipgloss.Color("#ff6b6b"),
		Axis:    lipgloss.Color("#8b6b8c"),
		Title:   lipgloss.Color("#ff9ff3"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Warning: lipgloss.Color("#ffc048"),
		Error:   lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{
		ThemeDefault,
		ThemeRetro,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDefault
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
