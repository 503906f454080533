package render

import (
	"bytes"
	"html/template"
	"io"
	"sync"
)

var fragmentTmpl = template.Must(template.New("results").Funcs(template.FuncMap{
	// Spans.HTML escapes every run itself.
	"highlight": func(s Spans) template.HTML { return template.HTML(s.HTML()) },
	"emptyText": func() string { return NoResultsText },
}).Parse(`<div class="search-panel" data-search-state="{{.Status.Kind}}">
<p class="search-count" data-search-count>{{.Status.Text}}</p>
{{- if .Status.Empty}}
<p class="search-empty" data-search-empty>{{emptyText}}</p>
{{- end}}
<ol class="search-results" data-search-results>
{{- range .Records}}
<li class="search-result">
<a class="search-result-title" href="{{.Permalink}}">{{highlight .Title}}</a>
{{- if .Date}}
<time class="search-result-date">{{.Date}}</time>
{{- end}}
{{- if .Summary}}
<p class="search-result-summary">{{highlight .Summary}}</p>
{{- end}}
{{- if .Tags}}
<ul class="search-result-tags">
{{- range .Tags}}
<li><a href="{{.Permalink}}">{{highlight .Name}}</a></li>
{{- end}}
</ul>
{{- end}}
</li>
{{- end}}
</ol>
</div>
`))

// WriteHTML writes f as an HTML fragment.
func WriteHTML(w io.Writer, f Frame) error {
	return fragmentTmpl.Execute(w, f)
}

// HTMLSurface keeps the markup of the most recent frame.
type HTMLSurface struct {
	mu    sync.Mutex
	frame Frame
	html  string
	err   error
}

func (s *HTMLSurface) Paint(f Frame) {
	var buf bytes.Buffer
	err := WriteHTML(&buf, f)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = f
	s.html = buf.String()
	s.err = err
}

// HTML returns the last painted markup.
func (s *HTMLSurface) HTML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.html, s.err
}

// Frame returns the last painted frame.
func (s *HTMLSurface) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}
