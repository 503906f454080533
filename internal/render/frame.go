package render

import "github.com/kamusis/zsearch/internal/search"

// Frame is everything a surface shows after one paint.
type Frame struct {
	Query   string
	Status  Status
	Records []Record
}

// Surface is a presentation target for frames. Paint replaces whatever was
// shown before; a frame without records clears the result list.
type Surface interface {
	Paint(Frame)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(Frame)

func (f SurfaceFunc) Paint(fr Frame) { f(fr) }

// PromptFrame asks for a longer query.
func PromptFrame(query string, minQueryLength int) Frame {
	return Frame{Query: query, Status: Status{Kind: StatusPrompt, MinQueryLength: minQueryLength}}
}

// DisabledFrame reports that search is turned off.
func DisabledFrame(query string) Frame {
	return Frame{Query: query, Status: Status{Kind: StatusDisabled}}
}

// LoadingFrame reports that the index is being fetched.
func LoadingFrame(query string) Frame {
	return Frame{Query: query, Status: Status{Kind: StatusLoading}}
}

// ErrorFrame reports that the index could not be loaded.
func ErrorFrame(query string) Frame {
	return Frame{Query: query, Status: Status{Kind: StatusError}}
}

// ResultsFrame renders ranked results. total is the match count before
// truncation.
func ResultsFrame(query string, terms []string, results []search.SearchResult, total int) Frame {
	return Frame{
		Query:   query,
		Status:  Status{Kind: StatusResults, Total: total, Shown: len(results)},
		Records: BuildRecords(results, terms),
	}
}
