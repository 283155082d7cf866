// Package server serves the studio site: the packed home gallery, collection
// pages, the contact and newsletter forms, a small JSON API and rendered
// gallery artifacts.
//
// Pages are server-rendered with html/template. The home gallery is packed on
// the server at the requested width and repacked in the browser from
// /api/gallery whenever the container resizes.
package server

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/woodfordbl/maffei-design/pkg/content"
	"github.com/woodfordbl/maffei-design/pkg/forms"
	"github.com/woodfordbl/maffei-design/pkg/gallery"
	"github.com/woodfordbl/maffei-design/pkg/pipeline"
)

// Options configures a Server. Zero fields take defaults.
type Options struct {
	Library *content.Library // nil loads the embedded content
	Runner  *pipeline.Runner // nil packs without a cache
	Forms   *forms.Service   // nil stores submissions in memory
	Logger  *log.Logger

	SiteURL      string
	Gap          *float64 // nil uses gallery.DefaultGap; 0 packs edge to edge
	DefaultWidth float64
}

// Server holds the site's dependencies. It is safe for concurrent use.
type Server struct {
	lib    *content.Library
	items  []gallery.Item
	runner *pipeline.Runner
	forms  *forms.Service
	logger *log.Logger
	pages  map[string]*template.Template

	siteURL      string
	gap          float64
	defaultWidth float64

	router chi.Router
}

// New builds a server and its routes.
func New(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	lib := opts.Library
	if lib == nil {
		var err error
		if lib, err = content.Default(); err != nil {
			return nil, err
		}
	}
	runner := opts.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	svc := opts.Forms
	if svc == nil {
		svc = forms.NewService(forms.NewMemoryStore(), logger)
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		lib:          lib,
		items:        lib.Portfolio(logger),
		runner:       runner,
		forms:        svc,
		logger:       logger,
		pages:        pages,
		siteURL:      opts.SiteURL,
		gap:          gallery.DefaultGap,
		defaultWidth: opts.DefaultWidth,
	}
	if s.siteURL == "" {
		s.siteURL = content.DefaultSiteURL
	}
	if opts.Gap != nil && *opts.Gap >= 0 {
		s.gap = *opts.Gap
	}
	if s.defaultWidth <= 0 {
		s.defaultWidth = pipeline.DefaultWidth
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleHome)
	r.Get("/collections/{id}", s.handleCollection)
	r.Get("/collections/{id}/share.png", s.handleShareCode)
	r.Get("/contact", s.handleContactPage)
	r.Post("/contact", s.handleContactSubmit)
	r.Post("/newsletter", s.handleNewsletterSubmit)
	r.Get("/gallery.{format}", s.handleArtifact)
	r.Get("/healthcheck", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/gallery", s.handleAPIGallery)
		r.Get("/collections", s.handleAPICollections)
		r.Post("/contact", s.handleAPIContact)
		r.Post("/newsletter", s.handleAPINewsletter)
	})

	r.NotFound(s.handleNotFound)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Items returns the portfolio items shown on the home page.
func (s *Server) Items() []gallery.Item {
	return s.items
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down,
// waiting up to shutdownTimeout for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("site available", "addr", addr, "url", s.siteURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info("server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("OK")); err != nil {
		s.logger.Error("write healthcheck", "err", err)
	}
}
