// Package server exposes the log pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                       liveness and build version
//	GET  /v1/presets                    built-in styles
//	POST /v1/render                     borehole JSON in, rendered artifacts out
//	POST /v1/render/page/{page}         one page as PNG or SVG bytes
//	GET  /v1/boreholes                  stored borehole IDs (needs a store)
//	GET  /v1/boreholes/{id}/page/{page} render a stored borehole page
//
// Errors are JSON objects {"code", "message", "request_id"} with the HTTP
// status derived from the error code.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/boreholelog/pkg/cache"
	bio "github.com/matzehuels/boreholelog/pkg/io"
	"github.com/matzehuels/boreholelog/pkg/observability"
	"github.com/matzehuels/boreholelog/pkg/pipeline"
)

// DefaultMaxBody caps request bodies.
const DefaultMaxBody = 4 << 20

// RequestIDHeader carries the per-request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// Store is a borehole document source, such as *ingest.MongoStore.
type Store interface {
	Get(ctx context.Context, id string) (bio.Document, error)
	List(ctx context.Context) ([]string, error)
}

// Config configures a Server.
type Config struct {
	// MaxBody limits request bodies in bytes. Zero uses DefaultMaxBody.
	MaxBody int64
	// Timeout bounds one request. Zero means no limit.
	Timeout time.Duration
	// Store enables the /v1/boreholes routes.
	Store Store
	// ScopeHeader names a request header whose value scopes cache keys,
	// so that API clients never share cached artifacts. Empty disables
	// scoping.
	ScopeHeader string
}

// Server is the HTTP front end of a pipeline.Runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
	router chi.Router
}

// New builds a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = DefaultMaxBody
	}
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{runner: runner, logger: logger, cfg: cfg}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	if s.cfg.Timeout > 0 {
		r.Use(middleware.Timeout(s.cfg.Timeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/presets", s.handlePresets)
		r.Post("/render", s.handleRender)
		r.Post("/render/page/{page}", s.handleRenderPage)
		if s.cfg.Store != nil {
			r.Get("/boreholes", s.handleListBoreholes)
			r.Get("/boreholes/{id}/page/{page}", s.handleStoredPage)
		}
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// runnerFor returns a runner whose cache keys are scoped to the calling
// client, or the shared runner when scoping is off.
func (s *Server) runnerFor(r *http.Request) *pipeline.Runner {
	if s.cfg.ScopeHeader == "" {
		return s.runner
	}
	scope := r.Header.Get(s.cfg.ScopeHeader)
	if scope == "" {
		return s.runner
	}
	scoped := *s.runner
	scoped.Keyer = cache.NewScopedKeyer(s.runner.Keyer, "client:"+cache.Hash([]byte(scope))[:16]+":")
	return &scoped
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const requestIDKey ctxKey = 0

// requestID reuses a well-formed incoming X-Request-ID or assigns a UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequestID returns the request ID stored in ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// observe reports each request to the server hooks and the log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request",
			"id", RequestID(r.Context()),
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}
