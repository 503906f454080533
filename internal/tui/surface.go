package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamusis/zsearch/internal/render"
)

// FrameMsg tells the model that a new frame is waiting on its Surface.
type FrameMsg struct{}

// Surface keeps the latest painted frame for the model to pick up. Paint
// never blocks: the controller paints with its lock held while the program
// may be busy delivering input to that same controller.
type Surface struct {
	mu     sync.Mutex
	frame  render.Frame
	notify func(tea.Msg)
}

// NewSurface returns an empty surface.
func NewSurface() *Surface {
	return &Surface{}
}

// SetNotify installs the function used to wake the program, usually
// (*tea.Program).Send.
func (s *Surface) SetNotify(fn func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

func (s *Surface) Paint(f render.Frame) {
	s.mu.Lock()
	s.frame = f
	notify := s.notify
	s.mu.Unlock()

	if notify != nil {
		go notify(FrameMsg{})
	}
}

// Latest returns the most recently painted frame.
func (s *Surface) Latest() render.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}
