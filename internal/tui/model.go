// Package tui is the interactive terminal search box.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kamusis/zsearch/internal/render"
	"github.com/kamusis/zsearch/internal/scroll"
	"github.com/kamusis/zsearch/internal/theme"
)

// BackToTopLines is how far the results must be scrolled, in lines, before
// the back-to-top hint is shown.
const BackToTopLines = 10

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0AF")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0AF")).Bold(true)
)

// Searcher receives the edits of the search box.
type Searcher interface {
	Input(text string)
}

type keyMap struct {
	quit     key.Binding
	top      key.Binding
	theme    key.Binding
	lineUp   key.Binding
	lineDown key.Binding
	pageUp   key.Binding
	pageDown key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
		top: key.NewBinding(
			key.WithKeys("ctrl+g", "home"),
			key.WithHelp("ctrl+g", "top"),
		),
		theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "theme"),
		),
		lineUp: key.NewBinding(
			key.WithKeys("up"),
		),
		lineDown: key.NewBinding(
			key.WithKeys("down"),
		),
		pageUp: key.NewBinding(
			key.WithKeys("pgup"),
		),
		pageDown: key.NewBinding(
			key.WithKeys("pgdown"),
		),
	}
}

// Model is the bubbletea model of the search box.
type Model struct {
	searcher Searcher
	surface  *Surface
	toggle   *theme.Toggle
	keys     keyMap

	input     textinput.Model
	view      viewport.Model
	backToTop scroll.Button
	frame     render.Frame
	themeText string
	width     int
	height    int
}

// NewModel returns a model that forwards edits to searcher and shows the
// frames painted on surface. toggle may be nil.
func NewModel(searcher Searcher, surface *Surface, toggle *theme.Toggle) *Model {
	t := textinput.New()
	t.Placeholder = "Search posts"
	t.Prompt = "/ "
	t.PromptStyle = promptStyle
	t.Focus()

	m := &Model{
		searcher:  searcher,
		surface:   surface,
		toggle:    toggle,
		keys:      newKeyMap(),
		input:     t,
		view:      viewport.New(80, 20),
		backToTop: scroll.Button{Offset: BackToTopLines},
	}
	if toggle != nil {
		m.applyTheme(toggle.State())
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return FrameMsg{} })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 1)
		m.view.Width = msg.Width
		m.view.Height = max(msg.Height-3, 1)
		return m, nil
	case FrameMsg:
		m.showFrame(m.surface.Latest())
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.top):
			m.view.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.theme):
			if m.toggle != nil {
				m.applyTheme(m.toggle.Cycle())
				m.view.SetContent(render.FormatText(m.frame))
			}
			return m, nil
		case key.Matches(msg, m.keys.lineUp):
			m.view.LineUp(1)
			return m, nil
		case key.Matches(msg, m.keys.lineDown):
			m.view.LineDown(1)
			return m, nil
		case key.Matches(msg, m.keys.pageUp):
			m.view.ViewUp()
			return m, nil
		case key.Matches(msg, m.keys.pageDown):
			m.view.ViewDown()
			return m, nil
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if v := m.input.Value(); v != before {
			m.searcher.Input(v)
		}
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.view, cmd = m.view.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.view.View())
	b.WriteString("\n")

	help := []string{"esc quit", "↑/↓ scroll"}
	if m.toggle != nil {
		help = append(help, fmt.Sprintf("ctrl+t %s", m.themeText))
	}
	b.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	if m.BackToTopVisible() {
		b.WriteString("  ")
		b.WriteString(hintStyle.Render("↑ ctrl+g back to top"))
	}
	return b.String()
}

// BackToTopVisible reports whether the results are scrolled far enough to
// offer a jump back to the top.
func (m *Model) BackToTopVisible() bool {
	return m.backToTop.Visible(m.view.YOffset)
}

// Frame returns the frame currently shown.
func (m *Model) Frame() render.Frame {
	return m.frame
}

func (m *Model) showFrame(f render.Frame) {
	m.frame = f
	m.view.SetContent(render.FormatText(f))
	// A new result list always starts at the top.
	m.view.GotoTop()
}

// TerminalPrefersDark reports the terminal background detected when it is
// called. Call it before NewModel: applying a theme overrides lipgloss'
// own detection for the rest of the process.
func TerminalPrefersDark() func() bool {
	dark := lipgloss.HasDarkBackground()
	return func() bool { return dark }
}

func (m *Model) applyTheme(st theme.State) {
	m.themeText = strings.ToLower(st.Label)
	lipgloss.SetHasDarkBackground(st.Effective == theme.Dark)
}
