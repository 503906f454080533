// Package controller drives a search box: it debounces input, issues search
// runs in sequence and lets only the most recently issued run update the
// surface.
package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/kamusis/zsearch/internal/config"
	"github.com/kamusis/zsearch/internal/render"
	"github.com/kamusis/zsearch/internal/search"
)

// State is the controller's position in the search pipeline.
type State int

const (
	StateIdle State = iota
	StateDebouncing
	StateLoadingIndex
	StateScoring
	StateRendered
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateLoadingIndex:
		return "loading-index"
	case StateScoring:
		return "scoring"
	case StateRendered:
		return "rendered"
	default:
		return "unknown"
	}
}

// IndexLoader provides the cached search index.
type IndexLoader interface {
	Load(ctx context.Context) ([]search.NormalizedEntry, error)
	Loaded() bool
	Failed() bool
}

// Controller owns one search box. Paint is always called with the
// controller's lock held, so surfaces must not call back into it.
type Controller struct {
	cfg     config.SearchConfig
	loader  IndexLoader
	surface render.Surface
	log     *slog.Logger

	mu       sync.Mutex
	state    State
	seq      uint64
	timer    *time.Timer
	timerGen uint64
	cancel   context.CancelFunc
	closed   bool
}

// New returns a controller for cfg.
func New(cfg config.SearchConfig, loader IndexLoader, surface render.Surface) *Controller {
	return &Controller{
		cfg:     cfg,
		loader:  loader,
		surface: surface,
		log:     slog.Default().With("component", "controller"),
	}
}

// Start paints the initial status.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.cfg.Enabled {
		c.surface.Paint(render.DisabledFrame(""))
		return
	}
	c.surface.Paint(render.PromptFrame("", c.cfg.MinQueryLength))
}

// State returns the current pipeline state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Input handles one edit of the search box. Queries shorter than the
// minimum length are answered immediately with a prompt and invalidate any
// run in flight; longer ones restart the debounce timer.
func (c *Controller) Input(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if !c.cfg.Enabled {
		c.surface.Paint(render.DisabledFrame(text))
		return
	}

	c.stopTimerLocked()
	if !c.longEnough(text) {
		c.promptLocked(text)
		return
	}

	c.state = StateDebouncing
	gen := c.timerGen
	c.timer = time.AfterFunc(c.cfg.Debounce, func() { c.fire(gen, text) })
}

// fire runs a debounced search unless the timer was superseded after it
// expired but before it acquired the lock.
func (c *Controller) fire(gen uint64, text string) {
	c.mu.Lock()
	current := gen == c.timerGen && !c.closed
	if current {
		c.timer = nil
	}
	c.mu.Unlock()
	if current {
		c.Search(context.Background(), text)
	}
}

// Search runs the pipeline for text right away and reports whether its
// result reached the surface. A run that is superseded by a newer one, at
// any point, is dropped without painting.
func (c *Controller) Search(ctx context.Context, text string) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	if !c.cfg.Enabled {
		c.surface.Paint(render.DisabledFrame(text))
		c.mu.Unlock()
		return false
	}
	if !c.longEnough(text) {
		c.promptLocked(text)
		c.mu.Unlock()
		return true
	}

	c.seq++
	seq := c.seq
	c.cancelRunLocked()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.cancel = cancel

	c.state = StateLoadingIndex
	if !c.loader.Loaded() {
		c.surface.Paint(render.LoadingFrame(text))
	}
	c.mu.Unlock()

	entries, err := c.loader.Load(runCtx)
	if err != nil {
		c.log.Debug("search run abandoned", "seq", seq, "error", err)
		return false
	}

	terms := search.Tokenize(text)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.log.Debug("discarding stale search run", "seq", seq)
		return false
	}
	if c.loader.Failed() {
		c.state = StateRendered
		c.surface.Paint(render.ErrorFrame(text))
		c.mu.Unlock()
		return true
	}
	c.state = StateScoring
	c.mu.Unlock()

	results, total := search.Rank(entries, terms, c.cfg.MaxResults)
	frame := render.ResultsFrame(text, terms, results, total)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		c.log.Debug("discarding stale search run", "seq", seq)
		return false
	}
	c.state = StateRendered
	c.surface.Paint(frame)
	return true
}

// Close stops the pending timer and abandons any run in flight.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTimerLocked()
	c.seq++
	c.cancelRunLocked()
	c.state = StateIdle
}

func (c *Controller) longEnough(text string) bool {
	q := search.NormalizeText(text)
	if q == "" {
		return false
	}
	return utf8.RuneCountInString(q) >= c.cfg.MinQueryLength
}

func (c *Controller) promptLocked(text string) {
	c.seq++
	c.cancelRunLocked()
	c.state = StateIdle
	c.surface.Paint(render.PromptFrame(text, c.cfg.MinQueryLength))
}

func (c *Controller) stopTimerLocked() {
	c.timerGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) cancelRunLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
