package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Canvas layers.
const (
	LayerAxis = iota + 1
	LayerCurve
	LayerDeriv
)

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Curve   lipgloss.Style
	Deriv   lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Hint    lipgloss.Style
	Key     lipgloss.Style
	Panel   lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(t.Title),
		Label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:   lipgloss.NewStyle().Foreground(t.Text),
		Curve:   lipgloss.NewStyle().Foreground(t.Curve),
		Deriv:   lipgloss.NewStyle().Foreground(t.Deriv),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Hint:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Key:     lipgloss.NewStyle().Bold(true).Foreground(t.Title),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Axis).
			Padding(0, 1),
	}
}

// Layers maps canvas layers to their styles.
func (s Styles) Layers(t Theme) map[int]lipgloss.Style {
	return map[int]lipgloss.Style{
		LayerAxis:  lipgloss.NewStyle().Foreground(t.Axis),
		LayerCurve: s.Curve,
		LayerDeriv: s.Deriv,
	}
}

// KeyHints renders "key action" pairs on one line.
func (s Styles) KeyHints(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.Key.Render(pairs[i])+s.Hint.Render(" "+pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}

// ProgressBar renders a fraction in [0, 1] as a bar of the given width.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
