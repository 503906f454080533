package config

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Container attributes read by ResolveSearchConfig.
const (
	AttrContainer      = "data-search"
	AttrEnabled        = "data-search-enabled"
	AttrIndexPath      = "data-search-index"
	AttrDebounce       = "data-search-debounce"
	AttrMinQueryLength = "data-search-min-length"
	AttrMaxResults     = "data-search-max-results"
)

// Defaults applied when an attribute is missing or invalid.
const (
	DefaultIndexPath      = "/search-index.json"
	DefaultDebounceMs     = 80
	DefaultMinQueryLength = 1
	DefaultMaxResults     = 50
)

// maxDebounceMs is the longest debounce that fits in a time.Duration.
const maxDebounceMs = math.MaxInt64 / int64(time.Millisecond)

// Attrs is the attribute set of a search container element.
type Attrs map[string]string

// Merge returns a copy of a with b's entries layered on top.
func (a Attrs) Merge(b Attrs) Attrs {
	out := make(Attrs, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// SearchConfig is the resolved, immutable configuration of one search box.
type SearchConfig struct {
	Enabled        bool
	IndexPath      string
	Debounce       time.Duration
	MinQueryLength int
	MaxResults     int
}

// DefaultSearchConfig returns the configuration of a container with no
// attributes.
func DefaultSearchConfig() SearchConfig {
	return ResolveSearchConfig(nil)
}

// ResolveSearchConfig reads each option from attrs independently. Missing or
// invalid values fall back to their default without error.
func ResolveSearchConfig(attrs Attrs) SearchConfig {
	cfg := SearchConfig{
		Enabled:        !strings.EqualFold(strings.TrimSpace(attrs[AttrEnabled]), "false"),
		IndexPath:      DefaultIndexPath,
		Debounce:       time.Duration(min(int64(intAttr(attrs, AttrDebounce, DefaultDebounceMs, 0)), maxDebounceMs)) * time.Millisecond,
		MinQueryLength: intAttr(attrs, AttrMinQueryLength, DefaultMinQueryLength, 0),
		MaxResults:     intAttr(attrs, AttrMaxResults, DefaultMaxResults, 1),
	}
	if p := strings.TrimSpace(attrs[AttrIndexPath]); p != "" {
		cfg.IndexPath = p
	}
	return cfg
}

// intAttr parses a base-10 integer attribute and clamps it to floor.
func intAttr(attrs Attrs, key string, def, floor int) int {
	raw, ok := attrs[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	if n < floor {
		return floor
	}
	return n
}
