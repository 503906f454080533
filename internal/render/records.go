package render

import (
	"strings"
	"time"

	"github.com/kamusis/zsearch/internal/search"
)

// DateLayout is the display format for post dates.
const DateLayout = "Jan 2, 2006"

// TagRecord is one rendered tag link.
type TagRecord struct {
	Name      Spans
	Permalink string
}

// Record is one rendered search result.
type Record struct {
	Title     Spans
	Permalink string
	Date      string
	Summary   Spans
	Tags      []TagRecord
	Score     int
}

// BuildRecords renders ranked results, highlighting terms in the title,
// summary and tag names. Tags missing a name or permalink are dropped.
func BuildRecords(results []search.SearchResult, terms []string) []Record {
	h := NewHighlighter(terms)
	out := make([]Record, 0, len(results))
	for _, r := range results {
		e := r.Entry.Entry
		title := strings.TrimSpace(e.Title)
		if title == "" {
			title = e.Permalink
		}
		rec := Record{
			Title:     h.Spans(title),
			Permalink: e.Permalink,
			Date:      DisplayDate(r.Entry.DateUnix),
			Summary:   h.Spans(strings.TrimSpace(e.Summary)),
			Score:     r.Score,
		}
		for _, t := range e.Tags {
			if strings.TrimSpace(t.Name) == "" || strings.TrimSpace(t.Permalink) == "" {
				continue
			}
			rec.Tags = append(rec.Tags, TagRecord{Name: h.Spans(t.Name), Permalink: t.Permalink})
		}
		out = append(out, rec)
	}
	return out
}

// DisplayDate formats a unix timestamp in UTC, or returns "" for zero.
func DisplayDate(unix float64) string {
	if unix <= 0 {
		return ""
	}
	return time.Unix(int64(unix), 0).UTC().Format(DateLayout)
}
