package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Terminal styles for text surfaces.
var (
	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.Color("#0AF"))

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0AF"))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888"))

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#05A", Dark: "#0AF"})

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F55"))
)

// Styled renders spans for a terminal, applying HighlightStyle to matches on
// top of base.
func (s Spans) Styled(base lipgloss.Style) string {
	var b strings.Builder
	for _, sp := range s {
		if sp.Match {
			b.WriteString(HighlightStyle.Render(sp.Text))
			continue
		}
		b.WriteString(base.Render(sp.Text))
	}
	return b.String()
}

// FormatText renders f for a terminal.
func FormatText(f Frame) string {
	var b strings.Builder

	switch f.Status.Kind {
	case StatusError:
		b.WriteString(ErrorStyle.Render(f.Status.Text()))
	default:
		b.WriteString(StatusStyle.Render(f.Status.Text()))
	}
	b.WriteString("\n")
	if f.Status.Empty() {
		b.WriteString(MutedStyle.Render(NoResultsText))
		b.WriteString("\n")
	}

	plain := lipgloss.NewStyle()
	for i, r := range f.Records {
		fmt.Fprintf(&b, "\n%2d. %s", i+1, r.Title.Styled(TitleStyle))
		if r.Date != "" {
			b.WriteString("  ")
			b.WriteString(MutedStyle.Render(r.Date))
		}
		b.WriteString("\n")
		if r.Permalink != "" {
			fmt.Fprintf(&b, "    %s\n", MutedStyle.Render(r.Permalink))
		}
		if len(r.Summary) > 0 {
			fmt.Fprintf(&b, "    %s\n", r.Summary.Styled(plain))
		}
		if len(r.Tags) > 0 {
			tags := make([]string, 0, len(r.Tags))
			for _, t := range r.Tags {
				tags = append(tags, MutedStyle.Render("#")+t.Name.Styled(MutedStyle))
			}
			fmt.Fprintf(&b, "    %s\n", strings.Join(tags, " "))
		}
	}
	return b.String()
}

// TextSurface writes every painted frame to W.
type TextSurface struct {
	mu sync.Mutex
	W  io.Writer
}

func (s *TextSurface) Paint(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.W, FormatText(f))
}
