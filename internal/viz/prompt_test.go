package viz

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/derivlab/internal/config"
	"github.com/san-kum/derivlab/internal/session"
)

func newTestPrompt() Prompt {
	cfg := config.DefaultConfig()
	cfg.Range = config.RangeConfig{XMin: -2, XMax: 2, Steps: 81}
	cfg.Plot = config.PlotConfig{Height: 5, Width: 30}
	return NewPrompt(session.New(cfg, nil), ThemeMinimal)
}

func typeText(t *testing.T, m Prompt, text string) Prompt {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	p, ok := next.(Prompt)
	require.True(t, ok)
	return p
}

func press(t *testing.T, m Prompt, k tea.KeyType) (Prompt, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	p, ok := next.(Prompt)
	require.True(t, ok)
	return p, cmd
}

func TestPromptDerives(t *testing.T) {
	m := typeText(t, newTestPrompt(), "x^3")
	assert.Contains(t, m.View(), "x^3")

	m, _ = press(t, m, tea.KeyEnter)
	require.NoError(t, m.err)
	require.NotNil(t, m.run)
	assert.Equal(t, "3*x^2", m.run.DF.String())

	view := m.View()
	assert.Contains(t, view, "3*x^2")
	assert.Contains(t, view, "f'(x)")
}

func TestPromptShowsParseError(t *testing.T) {
	m := typeText(t, newTestPrompt(), "x^-1")
	m, _ = press(t, m, tea.KeyEnter)
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "negative exponent is not supported")
}

func TestPromptHistory(t *testing.T) {
	m := typeText(t, newTestPrompt(), "x")
	m, _ = press(t, m, tea.KeyEnter)
	m = typeText(t, m, "sin(x)")
	m, _ = press(t, m, tea.KeyEnter)

	m, _ = press(t, m, tea.KeyUp)
	assert.Equal(t, "sin(x)", m.input.Value())
	m, _ = press(t, m, tea.KeyUp)
	assert.Equal(t, "x", m.input.Value())
	m, _ = press(t, m, tea.KeyDown)
	m, _ = press(t, m, tea.KeyDown)
	assert.Empty(t, m.input.Value())
}

func TestPromptEscQuits(t *testing.T) {
	m, cmd := press(t, newTestPrompt(), tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestPromptEditsThroughTextInput(t *testing.T) {
	m := typeText(t, newTestPrompt(), "x^2")
	m, _ = press(t, m, tea.KeyBackspace)
	assert.Equal(t, "x^", m.input.Value())

	m, _ = press(t, m, tea.KeyEnter)
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "missing exponent")
	assert.Empty(t, m.input.Value())
}
