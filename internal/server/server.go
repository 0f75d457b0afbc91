// Package server serves rendered dashboard pages over HTTP for local preview.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chartdeck/chartdeck/core"
	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/internal/echart"
	"github.com/chartdeck/chartdeck/schema"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// shutdownGrace bounds how long in-flight requests may finish after the context ends.
const shutdownGrace = 5 * time.Second

// Server renders pages on request. Every request reloads artifacts from the source.
type Server struct {
	cfg    *contract.Config
	loader contract.PageLoader
	mgr    contract.RunManager
	log    *zap.Logger
}

// New creates a preview server. A nil logger disables request logging.
func New(cfg *contract.Config, loader contract.PageLoader, mgr contract.RunManager, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{cfg: cfg, loader: loader, mgr: mgr, log: logger}
}

// Routes returns the router with all preview endpoints mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(s.cfg.Timeout + shutdownGrace))
	r.Use(s.logRequests)

	r.Get("/livez", s.live)
	r.Get("/api/pages", s.listPages)
	r.Get("/api/{page}", s.pageJSON)
	r.Get("/", s.pageHTML)
	r.Get("/{page}", s.pageHTML)
	return r
}

// Run listens on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("preview server listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("preview server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		s.log.Info("preview server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// NavLinks links every page by its server route.
func NavLinks(current schema.PageName) []echart.NavLink {
	specs := core.Pages()
	nav := make([]echart.NavLink, 0, len(specs))
	for _, p := range specs {
		href := "/" + string(p.Name)
		if p.Name == schema.OverviewPage {
			href = "/"
		}
		nav = append(nav, echart.NavLink{Title: p.Title, Href: href, Active: p.Name == current})
	}
	return nav
}

func (s *Server) render(r *http.Request) (schema.RenderedPage, int, error) {
	spec, err := core.LookupPage(chi.URLParam(r, "page"))
	if err != nil {
		return schema.RenderedPage{}, http.StatusNotFound, err
	}
	page, err := core.RenderPage(r.Context(), s.cfg, spec, s.loader, s.mgr)
	if err != nil {
		return schema.RenderedPage{}, http.StatusInternalServerError, err
	}
	return page, http.StatusOK, nil
}

func (s *Server) pageHTML(w http.ResponseWriter, r *http.Request) {
	page, status, err := s.render(r)
	if err != nil {
		s.log.Warn("page render failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	opts := echart.PageOptions{AssetsHost: s.cfg.AssetsHost, Nav: NavLinks(page.Page)}
	if err := echart.WritePage(w, page, opts); err != nil {
		s.log.Warn("page write failed", zap.String("page", string(page.Page)), zap.Error(err))
	}
}

func (s *Server) pageJSON(w http.ResponseWriter, r *http.Request) {
	page, status, err := s.render(r)
	if err != nil {
		writeJSONStatus(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSONStatus(w, http.StatusOK, page)
}

func (s *Server) listPages(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatus(w, http.StatusOK, core.Pages())
}

func (s *Server) live(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatus(w, http.StatusOK, map[string]string{"status": "alive"})
}

func writeJSONStatus(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// logRequests logs each request with its status and latency.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
