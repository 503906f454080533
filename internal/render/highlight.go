package render

import (
	"regexp"
	"strings"
)

// Span is a run of display text; Match marks a highlighted query term.
type Span struct {
	Text  string
	Match bool
}

// Spans is a piece of display text split into plain and highlighted runs.
type Spans []Span

// String returns the plain text.
func (s Spans) String() string {
	var b strings.Builder
	for _, sp := range s {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// HTML returns the spans as markup. All text is escaped; matched runs are
// wrapped in a highlight element.
func (s Spans) HTML() string {
	var b strings.Builder
	for _, sp := range s {
		if sp.Match {
			b.WriteString(`<strong class="search-highlight">`)
			b.WriteString(EscapeHTML(sp.Text))
			b.WriteString(`</strong>`)
			continue
		}
		b.WriteString(EscapeHTML(sp.Text))
	}
	return b.String()
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes the five HTML-significant characters.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Highlighter marks case-insensitive occurrences of query terms.
type Highlighter struct {
	re *regexp.Regexp
}

// NewHighlighter compiles a highlighter for terms. Empty terms are ignored;
// at a given position the earliest listed term wins.
func NewHighlighter(terms []string) *Highlighter {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		if t == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(t))
	}
	if len(quoted) == 0 {
		return &Highlighter{}
	}
	return &Highlighter{re: regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)}
}

// Spans splits text into plain and matched runs.
func (h *Highlighter) Spans(text string) Spans {
	if text == "" {
		return nil
	}
	if h == nil || h.re == nil {
		return Spans{{Text: text}}
	}
	var out Spans
	last := 0
	for _, loc := range h.re.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			out = append(out, Span{Text: text[last:loc[0]]})
		}
		out = append(out, Span{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, Span{Text: text[last:]})
	}
	return out
}

// Highlight is a convenience for NewHighlighter(terms).Spans(text).
func Highlight(text string, terms []string) Spans {
	return NewHighlighter(terms).Spans(text)
}
