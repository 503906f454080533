// Package theme resolves the site's light/dark/auto preference and keeps it
// in a single persisted key.
package theme

import (
	"math"
	"strings"
	"time"
)

// Mode is a user-selected theme preference.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
	Auto  Mode = "auto"
)

// DefaultStorageKey is the storage key used when none is configured.
const DefaultStorageKey = "zacharite-theme"

// Transition timings used by the page styling.
const (
	TransitionDuration = 520 * time.Millisecond
	AnimationHold      = 220 * time.Millisecond
)

var cycleOrder = []Mode{Auto, Light, Dark}

var labels = map[Mode]string{
	Light: "Sun",
	Dark:  "Moon",
	Auto:  "Auto",
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	_, ok := labels[m]
	return ok
}

// Label returns the short display label of m.
func (m Mode) Label() string {
	return labels[m]
}

// Next returns the mode after m in the toggle cycle.
func (m Mode) Next() Mode {
	for i, c := range cycleOrder {
		if c == m {
			return cycleOrder[(i+1)%len(cycleOrder)]
		}
	}
	return cycleOrder[0]
}

// Effective resolves m to light or dark. Auto follows the system preference.
func (m Mode) Effective(prefersDark func() bool) Mode {
	if m != Auto {
		return m
	}
	if prefersDark != nil && prefersDark() {
		return Dark
	}
	return Light
}

// Config is the page-level theme configuration.
type Config struct {
	DefaultMode Mode
	StorageKey  string
}

// ResolveConfig validates raw settings: an unknown default becomes Auto and a
// blank key becomes DefaultStorageKey.
func ResolveConfig(defaultMode, storageKey string) Config {
	cfg := Config{DefaultMode: Mode(defaultMode), StorageKey: strings.TrimSpace(storageKey)}
	if !cfg.DefaultMode.Valid() {
		cfg.DefaultMode = Auto
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = DefaultStorageKey
	}
	return cfg
}

// RevealRadius returns the radius of a circle centred on the toggle at
// (originX, originY) that covers a width x height viewport.
func RevealRadius(originX, originY, width, height float64) float64 {
	maxX := math.Max(originX, width-originX)
	maxY := math.Max(originY, height-originY)
	return math.Hypot(maxX, maxY)
}
