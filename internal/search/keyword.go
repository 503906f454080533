package search

import "strings"

// Field weights, checked in this order for every query term.
const (
	TitleWeight   = 6
	TagsWeight    = 4
	SummaryWeight = 2

	// PrefixBonus is added when a weighted field starts with the term.
	PrefixBonus = 1
)

// Score scores a normalized entry against query terms. Every term must be
// found in at least one weighted field (AND semantics across terms, OR
// across fields); otherwise ok is false. Each matching (term, field) pair
// contributes the field weight plus PrefixBonus when the field starts with
// the term.
func Score(e NormalizedEntry, terms []string) (score int, ok bool) {
	if len(terms) == 0 {
		return 0, false
	}
	fields := [...]struct {
		text   string
		weight int
	}{
		{e.Title, TitleWeight},
		{e.Tags, TagsWeight},
		{e.Summary, SummaryWeight},
	}

	for _, term := range terms {
		matched := false
		for _, f := range fields {
			if !strings.Contains(f.text, term) {
				continue
			}
			matched = true
			score += f.weight
			if strings.HasPrefix(f.text, term) {
				score += PrefixBonus
			}
		}
		if !matched {
			return 0, false
		}
	}
	return score, true
}

// Rank scores entries against terms, sorts the matches and truncates them to
// limit. total is the number of matches before truncation. A limit <= 0
// disables truncation.
func Rank(entries []NormalizedEntry, terms []string, limit int) (results []SearchResult, total int) {
	results = []SearchResult{}
	if len(terms) == 0 {
		return results, 0
	}
	for _, e := range entries {
		score, ok := Score(e, terms)
		if !ok {
			continue
		}
		results = append(results, SearchResult{Entry: e, Score: score})
	}

	SortResults(results)

	total = len(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, total
}

// KeywordSearch tokenizes query and ranks entries against it.
func KeywordSearch(entries []NormalizedEntry, query string, limit int) ([]SearchResult, int) {
	return Rank(entries, Tokenize(query), limit)
}
