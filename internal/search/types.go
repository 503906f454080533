package search

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Tag is one tag link attached to a post.
type Tag struct {
	Name      string `json:"name"`
	Permalink string `json:"permalink"`
}

// IndexEntry is one post as published in the site's search index.
//
// Decoding is lenient: fields of the wrong JSON type decode to their zero
// value instead of failing the whole document.
type IndexEntry struct {
	Title         string  `json:"title"`
	Summary       string  `json:"summary"`
	Tags          []Tag   `json:"tags"`
	Permalink     string  `json:"permalink"`
	DateUnix      float64 `json:"dateUnix"`
	SearchTitle   string  `json:"searchTitle,omitempty"`
	SearchTags    string  `json:"searchTags,omitempty"`
	SearchSummary string  `json:"searchSummary,omitempty"`
}

// UnmarshalJSON decodes an index entry, degrading malformed fields.
func (e *IndexEntry) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*e = IndexEntry{
		Title:         rawString(raw["title"]),
		Summary:       rawString(raw["summary"]),
		Tags:          rawTags(raw["tags"]),
		Permalink:     rawString(raw["permalink"]),
		DateUnix:      rawNumber(raw["dateUnix"]),
		SearchTitle:   rawString(raw["searchTitle"]),
		SearchTags:    rawString(raw["searchTags"]),
		SearchSummary: rawString(raw["searchSummary"]),
	}
	return nil
}

// NormalizedEntry is an index entry prepared for scoring. Title, Tags and
// Summary hold the lower-cased, whitespace-collapsed weighted fields.
type NormalizedEntry struct {
	Entry    IndexEntry
	Title    string
	Tags     string
	Summary  string
	DateUnix float64
}

// SearchResult represents one matched post.
type SearchResult struct {
	Entry NormalizedEntry
	Score int
}

func rawString(b json.RawMessage) string {
	if len(b) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ""
	}
	return s
}

func rawNumber(b json.RawMessage) float64 {
	if len(b) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		return finite(f)
	}
	if s := strings.TrimSpace(rawString(b)); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return finite(f)
		}
	}
	return 0
}

func rawTags(b json.RawMessage) []Tag {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil
	}
	out := make([]Tag, 0, len(items))
	for _, it := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(it, &fields); err != nil || fields == nil {
			continue
		}
		out = append(out, Tag{
			Name:      rawString(fields["name"]),
			Permalink: rawString(fields["permalink"]),
		})
	}
	return out
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
