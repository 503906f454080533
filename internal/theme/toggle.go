package theme

import (
	"fmt"
	"log/slog"
	"sync"
)

// State is what the toggle and page root display for the current mode.
type State struct {
	Mode       Mode
	Effective  Mode
	Label      string
	ShortLabel string
	AriaLabel  string
	// Animate is set when the effective theme changed on a user action.
	Animate bool
}

// Toggle tracks the theme preference. Storage failures are logged at debug
// level and otherwise ignored; the preference then lasts only for the
// toggle's lifetime.
type Toggle struct {
	cfg         Config
	store       Store
	prefersDark func() bool
	log         *slog.Logger

	mu        sync.Mutex
	mode      Mode
	effective Mode
}

// NewToggle restores the initial mode: the stored preference when valid,
// else rootMode when it is a concrete (non-auto) mode, else the default.
func NewToggle(cfg Config, store Store, rootMode string, prefersDark func() bool) *Toggle {
	t := &Toggle{
		cfg:         cfg,
		store:       store,
		prefersDark: prefersDark,
		log:         slog.Default().With("component", "theme"),
	}

	mode := t.stored()
	if mode == "" {
		if m := Mode(rootMode); m.Valid() && m != Auto {
			mode = m
		} else {
			mode = cfg.DefaultMode
		}
	}
	t.apply(mode, false, false)
	return t
}

// State returns the current state.
func (t *Toggle) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateLocked(false)
}

// Cycle advances to the next mode, persists it and returns the new state.
func (t *Toggle) Cycle() State {
	t.mu.Lock()
	next := t.mode.Next()
	t.mu.Unlock()
	return t.apply(next, true, true)
}

// Set switches to mode (or the default when invalid) and persists it.
func (t *Toggle) Set(mode Mode) State {
	return t.apply(mode, true, true)
}

func (t *Toggle) apply(mode Mode, persist, animate bool) State {
	if !mode.Valid() {
		mode = t.cfg.DefaultMode
	}
	effective := mode.Effective(t.prefersDark)

	t.mu.Lock()
	changed := t.effective != "" && t.effective != effective
	t.mode = mode
	t.effective = effective
	st := t.stateLocked(animate && changed)
	t.mu.Unlock()

	if persist && t.store != nil {
		if err := t.store.Set(t.cfg.StorageKey, string(mode)); err != nil {
			t.log.Debug("cannot persist theme", "error", err)
		}
	}
	return st
}

func (t *Toggle) stored() Mode {
	if t.store == nil {
		return ""
	}
	v, err := t.store.Get(t.cfg.StorageKey)
	if err != nil {
		t.log.Debug("cannot read stored theme", "error", err)
		return ""
	}
	if m := Mode(v); m.Valid() {
		return m
	}
	return ""
}

func (t *Toggle) stateLocked(animate bool) State {
	label := t.mode.Label()
	return State{
		Mode:       t.mode,
		Effective:  t.effective,
		Label:      "Theme: " + label,
		ShortLabel: label,
		AriaLabel:  fmt.Sprintf("Theme %s. Activate to switch to %s.", label, t.mode.Next().Label()),
		Animate:    animate,
	}
}
