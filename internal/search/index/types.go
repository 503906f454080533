package index

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// DefaultPath is the index location used when a page does not configure one.
const DefaultPath = "/search-index.json"

// MaxIndexSize caps the number of bytes read from an index document.
const MaxIndexSize = 32 << 20

// Source fetches the raw search index document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPSource fetches the index with a GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client
	// Header is sent with the request; it carries the site's credentials
	// (cookies, authorization) the way a same-origin fetch would.
	Header http.Header
}

// NewHTTPSource constructs an HTTPSource with a 30s client timeout.
func NewHTTPSource(rawURL string) *HTTPSource {
	return &HTTPSource{
		URL:    rawURL,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range s.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: GET %s: HTTP %d", ErrUnexpectedStatus, s.URL, resp.StatusCode)
	}
	return readLimited(resp.Body)
}

// FileSource reads the index from a site directory.
type FileSource struct {
	FS   fs.FS
	Path string
}

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := strings.TrimPrefix(path.Clean("/"+s.Path), "/")
	f, err := s.FS.Open(name)
	if err != nil {
		return nil, fmt.Errorf("cannot open index %s: %w", name, err)
	}
	defer f.Close()
	return readLimited(f)
}

// ResolveSource picks a source for indexPath relative to site. A site that
// is an http(s) URL yields an HTTPSource; anything else is treated as a
// local site directory.
func ResolveSource(site, indexPath string) (Source, error) {
	if strings.TrimSpace(indexPath) == "" {
		indexPath = DefaultPath
	}
	if strings.HasPrefix(site, "http://") || strings.HasPrefix(site, "https://") {
		base, err := url.Parse(site)
		if err != nil {
			return nil, fmt.Errorf("invalid site URL %q: %w", site, err)
		}
		ref, err := url.Parse(indexPath)
		if err != nil {
			return nil, fmt.Errorf("invalid index path %q: %w", indexPath, err)
		}
		return NewHTTPSource(base.ResolveReference(ref).String()), nil
	}
	if site == "" {
		site = "."
	}
	info, err := os.Stat(site)
	if err != nil {
		return nil, fmt.Errorf("cannot stat site directory %s: %w", site, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("site path is not a directory: %s", site)
	}
	return &FileSource{FS: os.DirFS(site), Path: indexPath}, nil
}

func readLimited(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, MaxIndexSize+1))
	if err != nil {
		return nil, err
	}
	if len(b) > MaxIndexSize {
		return nil, ErrIndexTooLarge
	}
	return b, nil
}
