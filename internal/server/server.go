// Package server exposes the search pipeline over HTTP next to a site
// directory, for previewing a static build locally.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kamusis/zsearch/internal/config"
	"github.com/kamusis/zsearch/internal/controller"
	"github.com/kamusis/zsearch/internal/render"
)

// StatusHeader carries the status kind of a rendered search panel.
const StatusHeader = "X-Search-Status"

// Config holds server configuration.
type Config struct {
	Addr     string
	SiteDir  string // served at / when set
	AllowAll bool   // allow all CORS origins
	Search   config.SearchConfig
}

// Server answers search requests from one shared index loader. Every
// request gets its own controller, so requests never supersede each other.
type Server struct {
	cfg        Config
	loader     controller.IndexLoader
	router     chi.Router
	httpServer *http.Server
	log        *slog.Logger
}

// New creates a server reading the index through loader.
func New(cfg Config, loader controller.IndexLoader) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	s := &Server{
		cfg:    cfg,
		loader: loader,
		log:    slog.Default().With("component", "server"),
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{StatusHeader},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", s.healthzHandler)
	r.Get("/search", s.searchHTMLHandler)
	r.Get("/api/search", s.searchJSONHandler)

	if s.cfg.SiteDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.SiteDir)))
	}
	return r
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("zsearch server listening", "addr", s.cfg.Addr)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		s.log.Info("zsearch server stopped")
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	state := "pending"
	switch {
	case s.loader.Failed():
		state = "failed"
	case s.loader.Loaded():
		state = "loaded"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "index": state})
}

// run answers one query. ok is false when the client went away before the
// index was ready.
func (s *Server) run(r *http.Request) (frame render.Frame, ok bool) {
	query := r.URL.Query().Get("q")

	surface := render.SurfaceFunc(func(f render.Frame) {
		if f.Status.Kind != render.StatusLoading {
			frame = f
		}
	})
	ctrl := controller.New(s.cfg.Search, s.loader, surface)
	defer ctrl.Close()

	if !ctrl.Search(r.Context(), query) && r.Context().Err() != nil {
		return render.Frame{}, false
	}
	return frame, true
}

func (s *Server) searchHTMLHandler(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.run(r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set(StatusHeader, frame.Status.Kind.String())
	w.WriteHeader(http.StatusOK)
	if err := render.WriteHTML(w, frame); err != nil {
		s.log.Error("render search fragment", "error", err)
	}
}

type tagResponse struct {
	Name      string `json:"name"`
	NameHTML  string `json:"nameHtml"`
	Permalink string `json:"permalink"`
}

type resultResponse struct {
	Title       string        `json:"title"`
	TitleHTML   string        `json:"titleHtml"`
	Permalink   string        `json:"permalink"`
	Date        string        `json:"date,omitempty"`
	Summary     string        `json:"summary,omitempty"`
	SummaryHTML string        `json:"summaryHtml,omitempty"`
	Tags        []tagResponse `json:"tags"`
	Score       int           `json:"score"`
}

type searchResponse struct {
	Query   string           `json:"query"`
	Status  string           `json:"status"`
	Text    string           `json:"text"`
	Total   int              `json:"total"`
	Results []resultResponse `json:"results"`
}

func (s *Server) searchJSONHandler(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.run(r)
	if !ok {
		return
	}
	resp := searchResponse{
		Query:   strings.TrimSpace(frame.Query),
		Status:  frame.Status.Kind.String(),
		Text:    frame.Status.Text(),
		Total:   frame.Status.Total,
		Results: make([]resultResponse, 0, len(frame.Records)),
	}
	for _, rec := range frame.Records {
		rr := resultResponse{
			Title:       rec.Title.String(),
			TitleHTML:   rec.Title.HTML(),
			Permalink:   rec.Permalink,
			Date:        rec.Date,
			Summary:     rec.Summary.String(),
			SummaryHTML: rec.Summary.HTML(),
			Tags:        make([]tagResponse, 0, len(rec.Tags)),
			Score:       rec.Score,
		}
		for _, t := range rec.Tags {
			rr.Tags = append(rr.Tags, tagResponse{Name: t.Name.String(), NameHTML: t.Name.HTML(), Permalink: t.Permalink})
		}
		resp.Results = append(resp.Results, rr)
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode JSON response", "error", err)
	}
}
