// Package server exposes the signup form over HTTP: a server-rendered HTML
// page, a JSON API described by an OpenAPI document, and metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/goliatone/go-signupform/internal/metrics"
	"github.com/goliatone/go-signupform/pkg/openapi"
	"github.com/goliatone/go-signupform/pkg/orchestrator"
	"github.com/goliatone/go-signupform/pkg/renderers/html"
)

// Channels reported to metrics.
const (
	channelHTML = "html"
	channelAPI  = "api"
)

// Option customises the server.
type Option func(*Server)

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records traffic on m and serves it at /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithPersistDrafts saves every HTML post to the store, passwords excluded.
func WithPersistDrafts(enabled bool) Option {
	return func(s *Server) {
		s.persistDrafts = enabled
	}
}

// WithTimeouts sets the read and write timeouts used by ListenAndServe.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}

// Server serves one signup form. A fresh form container is built per
// request.
type Server struct {
	orch          *orchestrator.Orchestrator
	doc           *openapi.Document
	metrics       *metrics.Metrics
	logger        *zap.Logger
	sanitizer     *bluemonday.Policy
	persistDrafts bool
	readTimeout   time.Duration
	writeTimeout  time.Duration
	router        chi.Router
}

// New builds the server and its routes.
func New(orch *orchestrator.Orchestrator, doc *openapi.Document, options ...Option) (*Server, error) {
	if orch == nil {
		return nil, errors.New("server: orchestrator is required")
	}
	if doc == nil {
		return nil, errors.New("server: openapi document is required")
	}
	s := &Server{
		orch:         orch,
		doc:          doc,
		logger:       zap.NewNop(),
		sanitizer:    bluemonday.StrictPolicy(),
		readTimeout:  10 * time.Second,
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.observe)
	}

	r.Get("/", s.showForm)
	r.Post("/", s.postForm)
	r.Post(openapi.PathValidate, s.validateJSON)
	r.Post(openapi.PathSubmit, s.submitJSON)
	r.Get("/openapi.json", s.openAPI)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(html.AssetsFS()))))
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveRequest(route, r.Method, fmt.Sprint(status), time.Since(start))
	})
}

func (s *Server) observeSubmission(channel, outcome string, errs map[string]string) {
	if s.metrics != nil {
		s.metrics.ObserveSubmission(channel, outcome, errs)
	}
}
