package render

import "fmt"

// StatusKind identifies what the status region is reporting.
type StatusKind int

const (
	StatusPrompt StatusKind = iota
	StatusDisabled
	StatusLoading
	StatusError
	StatusResults
)

func (k StatusKind) String() string {
	switch k {
	case StatusPrompt:
		return "prompt"
	case StatusDisabled:
		return "disabled"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusResults:
		return "results"
	default:
		return "unknown"
	}
}

// NoResultsText is shown in the empty region when a query matches nothing.
const NoResultsText = "No posts match your search."

// Status is the content of the count/empty/loading/error regions.
type Status struct {
	Kind StatusKind
	// MinQueryLength is used by StatusPrompt.
	MinQueryLength int
	// Total and Shown are used by StatusResults.
	Total int
	Shown int
}

// Text returns the status line.
func (s Status) Text() string {
	switch s.Kind {
	case StatusDisabled:
		return "Search is disabled."
	case StatusLoading:
		return "Loading search index…"
	case StatusError:
		return "Search is unavailable right now. Reload the page to try again."
	case StatusResults:
		if s.Shown < s.Total {
			return fmt.Sprintf("Showing %d of %d results", s.Shown, s.Total)
		}
		if s.Total == 1 {
			return "1 result"
		}
		return fmt.Sprintf("%d results", s.Total)
	default:
		if s.MinQueryLength > 1 {
			return fmt.Sprintf("Type at least %d characters to search posts.", s.MinQueryLength)
		}
		return "Type to search posts."
	}
}

// Empty reports whether the empty-results region should be visible.
func (s Status) Empty() bool {
	return s.Kind == StatusResults && s.Total == 0
}
