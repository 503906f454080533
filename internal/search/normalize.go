package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeText lower-cases s, trims it and collapses internal whitespace
// runs to a single space.
func NormalizeText(s string) string {
	// A Caser carries state and must not be shared between goroutines.
	lower := cases.Lower(language.Und).String(s)
	return strings.Join(strings.Fields(lower), " ")
}

// Tokenize splits a query into normalized, non-empty terms.
func Tokenize(q string) []string {
	q = NormalizeText(q)
	if q == "" {
		return nil
	}
	return strings.Split(q, " ")
}

// NormalizeEntry prepares e for scoring. It never fails: absent fields fall
// back to the display fields and then to the empty string.
func NormalizeEntry(e IndexEntry) NormalizedEntry {
	e.DateUnix = finite(e.DateUnix)

	title := e.SearchTitle
	if strings.TrimSpace(title) == "" {
		title = e.Title
	}
	tags := e.SearchTags
	if strings.TrimSpace(tags) == "" {
		names := make([]string, 0, len(e.Tags))
		for _, t := range e.Tags {
			names = append(names, t.Name)
		}
		tags = strings.Join(names, " ")
	}
	summary := e.SearchSummary
	if strings.TrimSpace(summary) == "" {
		summary = e.Summary
	}

	return NormalizedEntry{
		Entry:    e,
		Title:    NormalizeText(title),
		Tags:     NormalizeText(tags),
		Summary:  NormalizeText(summary),
		DateUnix: e.DateUnix,
	}
}
