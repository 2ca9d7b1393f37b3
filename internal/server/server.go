// Package server exposes respond adapters over HTTP so their output can be
// previewed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bjaus/respond"
	"github.com/bjaus/respond/internal/logging"
)

// RenderRequest is the body of POST /render/{adapter}.
type RenderRequest struct {
	Data any      `json:"data"`
	View string   `json:"view,omitempty"`
	Dirs []string `json:"dirs,omitempty"`
}

// ErrorRequest is the body of POST /error/{adapter}.
type ErrorRequest struct {
	Message string   `json:"message"`
	View    string   `json:"view,omitempty"`
	Dirs    []string `json:"dirs,omitempty"`
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithMetricsPath mounts the Prometheus handler at path. An empty path
// disables it.
func WithMetricsPath(path string) Option {
	return func(s *Server) { s.metricsPath = path }
}

// Server routes preview requests to named adapters.
type Server struct {
	adapters    map[string]respond.Adapter
	fallback    *respond.JSONAdapter
	metrics     *metrics
	metricsPath string
	log         *slog.Logger
}

// New returns a server for the given adapters, keyed by route name.
func New(adapters map[string]respond.Adapter, opts ...Option) *Server {
	s := &Server{
		adapters:    adapters,
		metrics:     newMetrics(),
		metricsPath: "/metrics",
		log:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.fallback = respond.NewJSON(respond.Config{Logger: s.log})
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.health)
	r.Post("/render/{adapter}", s.render)
	r.Post("/error/{adapter}", s.error)
	if s.metricsPath != "" {
		r.Handle(s.metricsPath, promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// ListenAndServe serves the routes on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("preview server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	_, _ = s.fallback.Render(r.Context(), map[string]string{"status": "ok"}, respond.WithHTTP(w, r))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	name, a, ok := s.adapter(w, r)
	if !ok {
		return
	}
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	start := time.Now()
	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
	opts := []respond.Option{respond.WithHTTP(ww, r), respond.WithDirs(req.Dirs...)}
	if req.View != "" {
		opts = append(opts, respond.WithViewName(req.View))
	}
	// A failed render may still have answered with the adapter's error
	// response, so the written status decides the outcome.
	_, err := a.Render(r.Context(), req.Data, opts...)
	s.metrics.observe(name, "render", start, err != nil || ww.Status() >= http.StatusBadRequest)
	if err != nil {
		s.log.Error("render failed", "adapter", name, "err", err)
		s.fail(w, r, http.StatusInternalServerError, err)
	}
}

func (s *Server) error(w http.ResponseWriter, r *http.Request) {
	name, a, ok := s.adapter(w, r)
	if !ok {
		return
	}
	var req ErrorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	start := time.Now()
	opts := []respond.Option{respond.WithHTTP(w, r), respond.WithDirs(req.Dirs...)}
	if req.View != "" {
		opts = append(opts, respond.WithViewName(req.View))
	}
	_, err := a.Error(r.Context(), errors.New(req.Message), opts...)
	s.metrics.observe(name, "error", start, err != nil)
	if err != nil {
		s.log.Error("error response failed", "adapter", name, "err", err)
		s.fail(w, r, http.StatusInternalServerError, err)
	}
}

func (s *Server) adapter(w http.ResponseWriter, r *http.Request) (string, respond.Adapter, bool) {
	name := chi.URLParam(r, "adapter")
	a, ok := s.adapters[name]
	if !ok {
		s.fail(w, r, http.StatusNotFound, fmt.Errorf("%w: %q", respond.ErrUnknownAdapter, name))
		return name, nil, false
	}
	return name, a, true
}

// fail answers with a JSON error envelope carrying status.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	withStatus := func(_ context.Context, v any) (any, error) {
		env := respond.Failure(v)
		env.Status = status
		return env, nil
	}
	if _, werr := s.fallback.Error(r.Context(), err, respond.WithHTTP(w, r), respond.WithFormatError(withStatus)); werr != nil {
		s.log.Warn("failed to write error response", "err", werr)
	}
}
