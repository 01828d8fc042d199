// Package server provides the posterkit web UI.
//
// Each template has a form page. Submitting it renders the poster through a
// pipeline.Runner, keeps the PNG and PDF in a short-lived hand-off store and
// shows a preview with download links:
//
//	GET  /                      template index
//	GET  /event, POST /event    event details poster
//	GET  /blank, POST /blank    blank-space poster
//	GET  /today, POST /today    today's-date poster
//	GET  /artifacts/{id}.{fmt}  download (or ?inline=1 preview) of a render
//	GET  /library               links to external asset folders
//	GET  /healthz               liveness probe
//
// Hand-off entries expire after Options.ArtifactTTL; later downloads get 404.
package server

import (
	"context"
	stderrors "errors"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/posterkit/pkg/cache"
	"github.com/matzehuels/posterkit/pkg/pipeline"
)

// Defaults for zero Options fields.
const (
	DefaultArtifactTTL    = cache.TTLHandoff
	DefaultRequestTimeout = 60 * time.Second
	shutdownTimeout       = 10 * time.Second
)

// LibraryLink is an external folder of ready-made assets.
type LibraryLink struct {
	Title string
	URL   string
}

// Options configures a Server.
type Options struct {
	// Runner renders posters. Required.
	Runner *pipeline.Runner
	// Store holds renders awaiting download. Defaults to an in-memory cache.
	Store cache.Cache
	Keyer cache.Keyer

	Library        []LibraryLink
	ArtifactTTL    time.Duration
	RequestTimeout time.Duration

	Logger *log.Logger
	// Now returns the current time; "today" is taken in the runner's
	// configured timezone.
	Now func() time.Time
}

// Server is the web UI.
type Server struct {
	runner  *pipeline.Runner
	store   cache.Cache
	keyer   cache.Keyer
	library []LibraryLink
	ttl     time.Duration
	timeout time.Duration
	logger  *log.Logger
	now     func() time.Time
	pages   map[string]*template.Template
}

// New creates a server.
func New(opts Options) (*Server, error) {
	if opts.Runner == nil {
		return nil, stderrors.New("server: runner is required")
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	s := &Server{
		runner:  opts.Runner,
		store:   opts.Store,
		keyer:   opts.Keyer,
		library: opts.Library,
		ttl:     opts.ArtifactTTL,
		timeout: opts.RequestTimeout,
		logger:  opts.Logger,
		now:     opts.Now,
		pages:   pages,
	}
	if s.store == nil {
		s.store = cache.NewMemoryCache(128)
	}
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	if s.ttl <= 0 {
		s.ttl = DefaultArtifactTTL
	}
	if s.timeout <= 0 {
		s.timeout = DefaultRequestTimeout
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Handler returns the routed handler with middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/library", s.handleLibrary)

	r.Get("/event", s.handleEventForm)
	r.Post("/event", s.handleEventSubmit)
	r.Get("/blank", s.handleBlankForm)
	r.Post("/blank", s.handleBlankSubmit)
	r.Get("/today", s.handleTodayForm)
	r.Post("/today", s.handleTodaySubmit)

	r.Get("/artifacts/{id}.{format}", s.handleArtifact)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, http.StatusNotFound, "page not found")
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
