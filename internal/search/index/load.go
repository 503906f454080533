package index

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/kamusis/zsearch/internal/search"
	"golang.org/x/sync/singleflight"
)

// Loader fetches and normalizes a search index at most once and caches the
// outcome, success or failure, for its whole lifetime.
type Loader struct {
	src     Source
	timeout time.Duration
	log     *slog.Logger

	group singleflight.Group

	mu      sync.Mutex
	loaded  bool
	failed  bool
	entries []search.NormalizedEntry
}

// NewLoader returns a Loader reading from src.
func NewLoader(src Source) *Loader {
	return &Loader{
		src:     src,
		timeout: time.Minute,
		log:     slog.Default().With("component", "index"),
	}
}

// Load returns the cached index, fetching it on first use. Concurrent callers
// share the pending fetch. Fetch and parse failures are never returned: they
// resolve to an empty index and set Failed. The only error is ctx.Err() when
// the caller stops waiting; the fetch itself keeps running for other callers.
//
// The returned slice is shared and must not be modified.
func (l *Loader) Load(ctx context.Context) ([]search.NormalizedEntry, error) {
	if entries, ok := l.cached(); ok {
		return entries, nil
	}

	ch := l.group.DoChan("index", func() (any, error) {
		// A fetch may have completed between cached() and DoChan.
		if entries, ok := l.cached(); ok {
			return entries, nil
		}
		entries, failed := l.fetch()

		l.mu.Lock()
		l.entries = entries
		l.failed = failed
		l.loaded = true
		l.mu.Unlock()
		return entries, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		entries, _ := res.Val.([]search.NormalizedEntry)
		return entries, nil
	}
}

// Loaded reports whether the index has been resolved.
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Failed reports whether the one load attempt failed.
func (l *Loader) Failed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failed
}

func (l *Loader) cached() ([]search.NormalizedEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries, l.loaded
}

func (l *Loader) fetch() ([]search.NormalizedEntry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	b, err := l.src.Fetch(ctx)
	if err != nil {
		l.log.Warn("search index fetch failed", "error", err)
		return []search.NormalizedEntry{}, true
	}
	entries, err := Parse(b)
	if err != nil {
		l.log.Warn("search index is not valid JSON", "error", err)
		return []search.NormalizedEntry{}, true
	}
	l.log.Debug("search index loaded", "entries", len(entries))
	return entries, false
}

// Parse decodes and normalizes an index document. A well-formed document
// that is not an array yields an empty index; elements that are not objects
// are skipped. Only malformed JSON is an error.
func Parse(b []byte) ([]search.NormalizedEntry, error) {
	if !json.Valid(b) {
		return nil, errors.New("malformed search index document")
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		return []search.NormalizedEntry{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, err
	}
	out := make([]search.NormalizedEntry, 0, len(items))
	for _, it := range items {
		it = bytes.TrimSpace(it)
		if len(it) == 0 || it[0] != '{' {
			continue
		}
		var e search.IndexEntry
		if err := json.Unmarshal(it, &e); err != nil {
			continue
		}
		out = append(out, search.NormalizeEntry(e))
	}
	return out, nil
}
