package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/kamusis/zsearch/internal/config"
	"github.com/kamusis/zsearch/internal/search/index"
	"github.com/spf13/cobra"
)

// searchFlags are shared by every command that runs searches.
type searchFlags struct {
	site      string
	page      string
	indexPath string
	minLength int
	max       int
	debounce  time.Duration
	headers   []string
}

func addSearchFlags(cmd *cobra.Command, f *searchFlags) {
	cmd.Flags().StringVar(&f.site, "site", ".", "Site root: http(s) URL or local build directory")
	cmd.Flags().StringVar(&f.page, "page", "", "Page (relative to --site) whose search container attributes apply")
	cmd.Flags().StringVar(&f.indexPath, "index", config.DefaultIndexPath, "Search index path relative to the site")
	cmd.Flags().IntVar(&f.minLength, "min-length", config.DefaultMinQueryLength, "Minimum query length")
	cmd.Flags().IntVar(&f.max, "max", config.DefaultMaxResults, "Maximum number of results to show")
	cmd.Flags().DurationVar(&f.debounce, "debounce", config.DefaultDebounceMs*time.Millisecond, "Delay after the last keystroke before searching")
	cmd.Flags().StringArrayVar(&f.headers, "header", nil, `Request header for an http(s) site, "Name: value" (repeatable)`)
}

// parseHeaders turns "Name: value" flag values into a header set.
func parseHeaders(vals []string) (http.Header, error) {
	h := http.Header{}
	for _, v := range vals {
		name, value, ok := strings.Cut(v, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q (want \"Name: value\")", v)
		}
		h.Add(textproto.CanonicalMIMEHeaderKey(name), strings.TrimSpace(value))
	}
	return h, nil
}

// withHeaders attaches h to src when it is fetched over HTTP.
func withHeaders(src index.Source, h http.Header) index.Source {
	if hs, ok := src.(*index.HTTPSource); ok && len(h) > 0 {
		hs.Header = h.Clone()
	}
	return src
}

// searchSetup is the resolved configuration of one search box.
type searchSetup struct {
	site   string
	search config.SearchConfig
	source index.Source
}

// resolveSearchSetup layers explicitly set flags over page attributes over
// the config file.
func resolveSearchSetup(cmd *cobra.Command, f *searchFlags) (*searchSetup, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}

	site := cfg.Site
	if cmd.Flags().Changed("site") {
		if site, err = config.ExpandPath(f.site); err != nil {
			return nil, err
		}
	}
	page := cfg.Page
	if cmd.Flags().Changed("page") {
		page = f.page
	}

	headers, err := parseHeaders(f.headers)
	if err != nil {
		return nil, err
	}

	attrs := cfg.Search
	if page != "" {
		pageAttrs, err := loadPageAttrs(cmd.Context(), site, page, headers)
		if err != nil {
			return nil, err
		}
		attrs = attrs.Merge(pageAttrs)
	}

	sc := config.ResolveSearchConfig(attrs)
	if cmd.Flags().Changed("index") && f.indexPath != "" {
		sc.IndexPath = f.indexPath
	}
	if cmd.Flags().Changed("min-length") {
		sc.MinQueryLength = max(f.minLength, 0)
	}
	if cmd.Flags().Changed("max") {
		sc.MaxResults = max(f.max, 1)
	}
	if cmd.Flags().Changed("debounce") {
		sc.Debounce = max(f.debounce, 0)
	}

	src, err := index.ResolveSource(site, sc.IndexPath)
	if err != nil {
		return nil, err
	}
	src = withHeaders(src, headers)
	slog.Debug("search configured", "site", site, "index", sc.IndexPath, "enabled", sc.Enabled,
		"min_length", sc.MinQueryLength, "max_results", sc.MaxResults, "debounce", sc.Debounce)
	return &searchSetup{site: site, search: sc, source: src}, nil
}

// loadPageAttrs reads the search container attributes from a site page.
func loadPageAttrs(ctx context.Context, site, page string, headers http.Header) (config.Attrs, error) {
	src, err := index.ResolveSource(site, page)
	if err != nil {
		return nil, err
	}
	src = withHeaders(src, headers)
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot read page %s: %w", page, err)
	}
	attrs, found, err := config.FindSearchContainer(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	if !found {
		slog.Warn("page has no search container", "page", page)
	}
	return attrs, nil
}
