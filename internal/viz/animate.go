package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/derivlab/internal/eval"
)

type TickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type AnimationOptions struct {
	Title      string
	Frames     int
	Interval   time.Duration
	Derivative bool
	Width      int
	Height     int
	Theme      Theme
}

// Animation draws f, and optionally its derivative, a little more on every
// frame until the whole range is shown.
type Animation struct {
	opts      AnimationOptions
	fs, dfs   eval.Series
	vp        Viewport
	canvas    *Canvas
	styles    Styles
	frame     int
	paused    bool
	showDeriv bool
	started   time.Time
	elapsed   time.Duration
}

func NewAnimation(fs, dfs eval.Series, xMin, xMax float64, opts AnimationOptions) Animation {
	opts.Frames = max(opts.Frames, 1)
	if opts.Interval <= 0 {
		opts.Interval = 50 * time.Millisecond
	}
	opts.Width = max(opts.Width, 20)
	opts.Height = max(opts.Height, 5)

	vp := FitViewport(xMin, xMax, fs)
	if opts.Derivative {
		vp = FitViewport(xMin, xMax, fs, dfs)
	}
	return Animation{
		opts:      opts,
		fs:        fs,
		dfs:       dfs,
		vp:        vp,
		canvas:    NewCanvas(opts.Width, opts.Height),
		styles:    NewStyles(opts.Theme),
		showDeriv: opts.Derivative,
		started:   time.Now(),
	}
}

func (m Animation) Init() tea.Cmd {
	return tick(m.opts.Interval)
}

// Done reports whether the last frame has been reached.
func (m Animation) Done() bool { return m.frame >= m.opts.Frames-1 }

// Visible is the number of points drawn on the current frame.
func (m Animation) Visible() int {
	n := len(m.fs.Points)
	return min(n, (m.frame+1)*n/m.opts.Frames)
}

func (m Animation) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			if !m.paused && !m.Done() {
				return m, tick(m.opts.Interval)
			}
		case "r":
			wasRunning := !m.paused && !m.Done()
			m.frame, m.paused, m.started, m.elapsed = 0, false, time.Now(), 0
			if !wasRunning {
				return m, tick(m.opts.Interval)
			}
		case "d":
			m.showDeriv = !m.showDeriv
		}
	case tea.WindowSizeMsg:
		m.opts.Width = max(msg.Width-4, 20)
		m.opts.Height = max(msg.Height-8, 5)
		m.canvas = NewCanvas(m.opts.Width, m.opts.Height)
	case TickMsg:
		if m.paused || m.Done() {
			return m, nil
		}
		m.frame++
		if m.Done() {
			m.elapsed = time.Since(m.started)
			return m, nil
		}
		return m, tick(m.opts.Interval)
	}
	return m, nil
}

func (m Animation) View() string {
	n := m.Visible()
	m.canvas.Clear()
	m.canvas.SetLayer(LayerAxis)
	m.canvas.DrawAxes(m.vp)
	if m.showDeriv {
		m.canvas.SetLayer(LayerDeriv)
		m.canvas.Plot(m.vp, m.dfs.Points[:min(n, len(m.dfs.Points))])
	}
	m.canvas.SetLayer(LayerCurve)
	m.canvas.Plot(m.vp, m.fs.Points[:n])

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.opts.Title) + "\n")
	b.WriteString(m.canvas.Render(m.styles.Layers(m.opts.Theme)))

	frac := float64(m.frame+1) / float64(m.opts.Frames)
	status := fmt.Sprintf(" %d/%d", m.frame+1, m.opts.Frames)
	switch {
	case m.Done():
		status += fmt.Sprintf("  done in %s", m.elapsed.Round(time.Millisecond))
	case m.paused:
		status += "  paused"
	}
	b.WriteString(m.styles.Curve.Render(ProgressBar(frac, 30)) + m.styles.Hint.Render(status) + "\n")

	legend := m.styles.Curve.Render("━ f(x)")
	if m.showDeriv {
		legend += "  " + m.styles.Deriv.Render("━ f'(x)")
	}
	b.WriteString(legend + "\n")
	b.WriteString(m.styles.KeyHints("space", "pause", "r", "restart", "d", "derivative", "q", "quit") + "\n")
	return b.String()
}

func RunAnimation(m Animation) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
