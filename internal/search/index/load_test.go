package index

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"
)

const sampleIndex = `[
  {"title": "Alpha Release", "summary": "first beta", "tags": [], "permalink": "/posts/alpha/", "dateUnix": 100},
  {"title": "Beta Notes", "summary": "alpha testing", "permalink": "/posts/beta/", "dateUnix": 200}
]`

func countingServer(t *testing.T, status int, body string, delay time.Duration) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if delay > 0 {
			time.Sleep(delay)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestLoad_IndexHappyPath(t *testing.T) {
	srv, hits := countingServer(t, http.StatusOK, sampleIndex, 0)
	src, err := ResolveSource(srv.URL, "/search-index.json")
	if err != nil {
		t.Fatalf("ResolveSource: %v", err)
	}
	l := NewLoader(src)

	entries, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Title != "alpha release" || entries[1].DateUnix != 200 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if l.Failed() || !l.Loaded() {
		t.Fatalf("expected loaded without failure")
	}

	if _, err := l.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if got := atomic.LoadInt32(hits); got != 1 {
		t.Fatalf("expected 1 fetch, got %d", got)
	}
}

func TestLoad_ConcurrentCallersShareOneFetch(t *testing.T) {
	srv, hits := countingServer(t, http.StatusOK, sampleIndex, 50*time.Millisecond)
	l := NewLoader(NewHTTPSource(srv.URL + "/search-index.json"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entries, err := l.Load(context.Background())
			if err != nil {
				t.Errorf("Load: %v", err)
				return
			}
			if len(entries) != 2 {
				t.Errorf("expected 2 entries, got %d", len(entries))
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(hits); got != 1 {
		t.Fatalf("expected 1 fetch, got %d", got)
	}
}

func TestLoad_FailureIsStickyAndAbsorbed(t *testing.T) {
	srv, hits := countingServer(t, http.StatusInternalServerError, "boom", 0)
	l := NewLoader(NewHTTPSource(srv.URL + "/search-index.json"))

	for i := 0; i < 3; i++ {
		entries, err := l.Load(context.Background())
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected empty index, got %d entries", len(entries))
		}
	}
	if !l.Failed() {
		t.Fatal("expected failure flag")
	}
	if got := atomic.LoadInt32(hits); got != 1 {
		t.Fatalf("expected no retry, got %d fetches", got)
	}
}

func TestLoad_MalformedJSONFails(t *testing.T) {
	srv, _ := countingServer(t, http.StatusOK, `[{"title": `, 0)
	l := NewLoader(NewHTTPSource(srv.URL))
	entries, err := l.Load(context.Background())
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected empty index without error, got %d entries err=%v", len(entries), err)
	}
	if !l.Failed() {
		t.Fatal("expected failure flag for malformed JSON")
	}
}

func TestLoad_NonArrayIsEmptyNotFailure(t *testing.T) {
	srv, _ := countingServer(t, http.StatusOK, `{"posts": []}`, 0)
	l := NewLoader(NewHTTPSource(srv.URL))
	entries, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty index, got %d", len(entries))
	}
	if l.Failed() {
		t.Fatal("non-array payload must not set the failure flag")
	}
}

func TestLoad_CallerCancellationDoesNotAbortFetch(t *testing.T) {
	srv, hits := countingServer(t, http.StatusOK, sampleIndex, 100*time.Millisecond)
	l := NewLoader(NewHTTPSource(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := l.Load(ctx)
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	entries, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if got := atomic.LoadInt32(hits); got != 1 {
		t.Fatalf("expected 1 fetch, got %d", got)
	}
}

func TestFileSource_ReadsFromSiteDir(t *testing.T) {
	fsys := fstest.MapFS{
		"search-index.json": &fstest.MapFile{Data: []byte(sampleIndex)},
	}
	l := NewLoader(&FileSource{FS: fsys, Path: "/search-index.json"})
	entries, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	missing := NewLoader(&FileSource{FS: fsys, Path: "/missing.json"})
	if _, err := missing.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !missing.Failed() {
		t.Fatal("expected failure flag for missing file")
	}
}

func TestParse_SkipsNonObjects(t *testing.T) {
	entries, err := Parse([]byte(`[1, "two", null, {"title": "Three"}]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "three" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestHTTPSource_ForwardsHeaders(t *testing.T) {
	var gotCookie, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(sampleIndex))
	}))
	t.Cleanup(srv.Close)

	src := NewHTTPSource(srv.URL + "/search-index.json")
	src.Header = http.Header{"Cookie": {"session=abc"}}
	if _, err := src.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotCookie != "session=abc" {
		t.Fatalf("expected cookie to be forwarded, got %q", gotCookie)
	}
	if gotAccept != "application/json" {
		t.Fatalf("unexpected Accept header %q", gotAccept)
	}
}
