package tui

import (
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kamusis/zsearch/internal/render"
	"github.com/kamusis/zsearch/internal/search"
	"github.com/kamusis/zsearch/internal/theme"
)

type recordingSearcher struct {
	inputs []string
}

func (r *recordingSearcher) Input(text string) { r.inputs = append(r.inputs, text) }

type memStore struct{ values map[string]string }

func (m *memStore) Get(key string) (string, error) { return m.values[key], nil }

func (m *memStore) Set(key, value string) error {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func typeRunes(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func manyResults(n int) render.Frame {
	results := make([]search.SearchResult, 0, n)
	for i := 0; i < n; i++ {
		e := search.NormalizeEntry(search.IndexEntry{
			Title:     "Post",
			Permalink: "/posts/p/",
			Summary:   "summary",
		})
		results = append(results, search.SearchResult{Entry: e, Score: 6})
	}
	return render.ResultsFrame("post", []string{"post"}, results, n)
}

func TestTypingForwardsEveryEdit(t *testing.T) {
	s := &recordingSearcher{}
	m := NewModel(s, NewSurface(), nil)

	typeRunes(m, "go")
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	want := []string{"g", "go", "g"}
	if strings.Join(s.inputs, ",") != strings.Join(want, ",") {
		t.Fatalf("expected inputs %v, got %v", want, s.inputs)
	}
}

func TestNavigationKeysDoNotSearch(t *testing.T) {
	s := &recordingSearcher{}
	m := NewModel(s, NewSurface(), nil)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})

	if len(s.inputs) != 0 {
		t.Fatalf("expected no searches, got %v", s.inputs)
	}
}

func TestEscQuits(t *testing.T) {
	m := NewModel(&recordingSearcher{}, NewSurface(), nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestFrameMsgShowsLatestPaint(t *testing.T) {
	surface := NewSurface()
	m := NewModel(&recordingSearcher{}, surface, nil)

	surface.Paint(render.LoadingFrame("go"))
	surface.Paint(render.ErrorFrame("go"))
	m.Update(FrameMsg{})

	if m.Frame().Status.Kind != render.StatusError {
		t.Fatalf("expected error frame, got %v", m.Frame().Status.Kind)
	}
}

func TestSurfaceNotifiesWithoutBlocking(t *testing.T) {
	surface := NewSurface()
	var wg sync.WaitGroup
	wg.Add(1)
	block := make(chan struct{})
	surface.SetNotify(func(tea.Msg) {
		defer wg.Done()
		<-block
	})

	// Paint must return even though the receiver is stuck.
	surface.Paint(render.PromptFrame("", 1))
	if surface.Latest().Status.Kind != render.StatusPrompt {
		t.Fatal("expected prompt frame to be stored")
	}
	close(block)
	wg.Wait()
}

func TestBackToTopHint(t *testing.T) {
	surface := NewSurface()
	m := NewModel(&recordingSearcher{}, surface, nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})

	surface.Paint(manyResults(20))
	m.Update(FrameMsg{})
	if m.BackToTopVisible() {
		t.Fatal("hint must be hidden at the top")
	}

	for i := 0; i < BackToTopLines+1; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if !m.BackToTopVisible() {
		t.Fatal("expected hint after scrolling past the offset")
	}
	if !strings.Contains(m.View(), "back to top") {
		t.Fatal("expected hint in view")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	if m.BackToTopVisible() {
		t.Fatal("expected hint to hide after jumping to the top")
	}
}

func TestNewFrameScrollsToTop(t *testing.T) {
	surface := NewSurface()
	m := NewModel(&recordingSearcher{}, surface, nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})

	surface.Paint(manyResults(20))
	m.Update(FrameMsg{})
	m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	m.Update(tea.KeyMsg{Type: tea.KeyPgDown})

	surface.Paint(manyResults(20))
	m.Update(FrameMsg{})
	if m.BackToTopVisible() {
		t.Fatal("expected a fresh result list to start at the top")
	}
}

func TestThemeKeyCyclesAndPersists(t *testing.T) {
	store := &memStore{}
	toggle := theme.NewToggle(theme.ResolveConfig("auto", ""), store, "", func() bool { return false })
	m := NewModel(&recordingSearcher{}, NewSurface(), toggle)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})

	if got := toggle.State().Mode; got != theme.Light {
		t.Fatalf("expected light after one cycle, got %s", got)
	}
	if store.values[theme.DefaultStorageKey] != string(theme.Light) {
		t.Fatalf("expected light to be stored, got %v", store.values)
	}
	if !strings.Contains(m.View(), "theme: sun") {
		t.Fatalf("expected theme label in help, got %q", m.View())
	}
}

func TestAutoThemeKeepsDarkTerminal(t *testing.T) {
	orig := lipgloss.HasDarkBackground()
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(orig) })
	lipgloss.SetHasDarkBackground(true)

	toggle := theme.NewToggle(theme.ResolveConfig("auto", ""), &memStore{}, "", TerminalPrefersDark())
	m := NewModel(&recordingSearcher{}, NewSurface(), toggle)

	if st := toggle.State(); st.Mode != theme.Auto || st.Effective != theme.Dark {
		t.Fatalf("expected auto to resolve dark on a dark terminal, got %+v", st)
	}
	if !lipgloss.HasDarkBackground() {
		t.Fatal("dark terminal background was overridden")
	}
	if !strings.Contains(m.View(), "theme: auto") {
		t.Fatalf("expected auto label in help, got %q", m.View())
	}

	// auto → light switches the palette; light → dark switches it back.
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if lipgloss.HasDarkBackground() {
		t.Fatal("expected light palette after choosing light")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if !lipgloss.HasDarkBackground() {
		t.Fatal("expected dark palette after choosing dark")
	}
}
