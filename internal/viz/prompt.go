package viz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/derivlab/internal/deriv"
	"github.com/san-kum/derivlab/internal/parse"
	"github.com/san-kum/derivlab/internal/session"
)

// Prompt reads an expression, and on Enter shows its derivative and plots of
// both. Esc quits.
type Prompt struct {
	session  *session.Session
	theme    Theme
	styles   Styles
	input    textinput.Model
	history  []string
	histPos  int
	run      *session.Run
	err      error
	plotW    int
	plotH    int
	quitting bool
}

func NewPrompt(s *session.Session, theme Theme) Prompt {
	cfg := s.Config()
	styles := NewStyles(theme)

	ti := textinput.New()
	ti.Placeholder = "2*x^3 + 3*sin(x) - 5*exp(2*x) + 1"
	ti.Prompt = "f(x) = "
	ti.PromptStyle = styles.Key
	ti.TextStyle = styles.Value
	ti.PlaceholderStyle = styles.Hint
	ti.CharLimit = 256
	ti.Focus()

	return Prompt{
		session: s,
		theme:   theme,
		styles:  styles,
		input:   ti,
		plotW:   cfg.Plot.Width,
		plotH:   cfg.Plot.Height,
	}
}

func (m Prompt) Init() tea.Cmd { return textinput.Blink }

func (m Prompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.plotW = max(msg.Width-12, 20)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey takes the keys that drive the session and passes the rest to
// the text input.
func (m Prompt) handleKey(msg tea.KeyMsg) (Prompt, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEnter:
		m.submit()
		return m, nil
	case tea.KeyUp:
		if m.histPos > 0 {
			m.histPos--
			m.recall()
		}
		return m, nil
	case tea.KeyDown:
		if m.histPos < len(m.history)-1 {
			m.histPos++
			m.recall()
		} else {
			m.histPos = len(m.history)
			m.input.Reset()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Prompt) recall() {
	m.input.SetValue(m.history[m.histPos])
	m.input.CursorEnd()
}

func (m *Prompt) submit() {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return
	}
	m.history = append(m.history, text)
	m.histPos = len(m.history)
	m.input.Reset()
	m.run, m.err = nil, nil

	d, err := m.session.Derive(text, 1)
	if err != nil {
		m.err = err
		return
	}
	m.run, m.err = m.session.Sample(context.Background(), d)
}

func (m Prompt) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n  " + m.styles.Title.Render("DERIVLAB") + "\n")
	b.WriteString("  " + m.styles.Hint.Render("sums of c, a*x^n, a*sin/cos/tan(k*x), a*exp(k*x)") + "\n\n")
	b.WriteString("  " + m.input.View() + "\n\n")

	if m.err != nil {
		b.WriteString(m.viewError())
	} else if m.run != nil {
		b.WriteString(m.viewRun())
	}

	b.WriteString("\n  " + m.styles.KeyHints("enter", "derive", "↑/↓", "history", "esc", "quit") + "\n")
	return b.String()
}

func (m Prompt) viewError() string {
	var pe *parse.ParseError
	if errors.As(m.err, &pe) {
		return indent(m.styles.Error.Render(pe.Highlight()), "  ") + "\n"
	}
	if errors.Is(m.err, deriv.ErrUnsupported) {
		return "  " + m.styles.Error.Render(m.err.Error()) + "\n" +
			"  " + m.styles.Hint.Render("set policy: skip in the config to drop such terms") + "\n"
	}
	return "  " + m.styles.Error.Render(m.err.Error()) + "\n"
}

func (m Prompt) viewRun() string {
	r := m.run
	var b strings.Builder
	b.WriteString("  " + m.styles.Label.Render("f(x)") + m.styles.Curve.Render(r.F.String()) + "\n")
	b.WriteString("  " + m.styles.Label.Render("f'(x)") + m.styles.Deriv.Render(r.DF.String()) + "\n")
	for _, ud := range r.Skipped {
		b.WriteString("  " + m.styles.Warning.Render("skipped "+ud.Term.String()) + "\n")
	}
	if n := r.Warnings(); n > 0 {
		b.WriteString("  " + m.styles.Warning.Render(fmt.Sprintf("%d singular points in [%g, %g]", n, r.XMin, r.XMax)) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(indent(GraphPair(r.FS, r.DFS, "f(x)", "f'(x)", m.plotW, m.plotH), "  "))
	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}

func RunPrompt(s *session.Session, theme Theme) error {
	_, err := tea.NewProgram(NewPrompt(s, theme)).Run()
	return err
}
