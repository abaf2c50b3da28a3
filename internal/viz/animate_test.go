package viz

import (
	"math"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/derivlab/internal/eval"
	"github.com/san-kum/derivlab/internal/parse"
)

func newTestAnimation(frames int) Animation {
	fs := eval.Collect(eval.SampleRange(eval.Direct, parse.MustParse("sin(x)"), 0, 2*math.Pi, 100))
	dfs := eval.Collect(eval.SampleRange(eval.Direct, parse.MustParse("cos(x)"), 0, 2*math.Pi, 100))
	return NewAnimation(fs, dfs, 0, 2*math.Pi, AnimationOptions{
		Title:      "sin(x)",
		Frames:     frames,
		Interval:   time.Millisecond,
		Derivative: true,
		Width:      40,
		Height:     10,
		Theme:      ThemeDefault,
	})
}

func step(t *testing.T, m tea.Model, msg tea.Msg) (Animation, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	a, ok := next.(Animation)
	require.True(t, ok)
	return a, cmd
}

func TestAnimationRevealsProgressively(t *testing.T) {
	m := newTestAnimation(4)
	assert.Equal(t, 25, m.Visible())

	var cmd tea.Cmd
	for i := 0; i < 2; i++ {
		m, cmd = step(t, m, TickMsg(time.Now()))
		assert.NotNil(t, cmd)
	}
	assert.Equal(t, 75, m.Visible())

	m, cmd = step(t, m, TickMsg(time.Now()))
	assert.Nil(t, cmd, "no tick after the last frame")
	assert.True(t, m.Done())
	assert.Equal(t, 100, m.Visible())
	assert.Contains(t, m.View(), "4/4")
}

func TestAnimationPause(t *testing.T) {
	m := newTestAnimation(10)
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m, cmd := step(t, m, TickMsg(time.Now()))
	assert.Nil(t, cmd)
	assert.Equal(t, 10, m.Visible())
	assert.Contains(t, m.View(), "paused")

	m, cmd = step(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.NotNil(t, cmd)
}

func TestAnimationRestartAndQuit(t *testing.T) {
	m := newTestAnimation(2)
	m, _ = step(t, m, TickMsg(time.Now()))
	require.True(t, m.Done())

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.NotNil(t, cmd)
	assert.False(t, m.Done())

	_, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
