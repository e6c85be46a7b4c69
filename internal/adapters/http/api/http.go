// Package api wires the console's own HTTP routes: metrics, status and the
// backend API mount.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/okian/rpaconsole/pkg/logger"
	"github.com/okian/rpaconsole/pkg/metrics"
)

// DefaultAPIBase is where the backend API is mounted on the console.
const DefaultAPIBase = "/api"

// Server wires HTTP routes for the console.
type Server struct {
	apiBase  string
	proxy    http.Handler
	status   StatusProvider
	gatherer prometheus.Gatherer
	metrics  *metrics.Manager
	logger   logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithProxy sets the handler the API base is forwarded to.
func WithProxy(h http.Handler) Option {
	return func(s *Server) {
		if h != nil {
			s.proxy = h
		}
	}
}

// WithAPIBase sets the mount path, e.g. /api.
func WithAPIBase(base string) Option {
	return func(s *Server) {
		if base != "" {
			s.apiBase = base
		}
	}
}

// WithStatusProvider enables GET /status.
func WithStatusProvider(p StatusProvider) Option {
	return func(s *Server) {
		if p != nil {
			s.status = p
		}
	}
}

// WithGatherer sets which registry /healthz exposes.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server.
func NewServer(opts ...Option) (*Server, error) {
	s := &Server{
		apiBase:  DefaultAPIBase,
		gatherer: metrics.GetRegistry(),
		metrics:  metrics.Default(),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.proxy == nil {
		return nil, ErrNoProxy
	}
	if !strings.HasPrefix(s.apiBase, "/") || s.apiBase == "/" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAPIBase, s.apiBase)
	}
	s.apiBase = strings.TrimRight(s.apiBase, "/")
	s.logger = s.logger.Named("api")
	return s, nil
}

// APIBase returns the mount path without a trailing slash.
func (s *Server) APIBase() string { return s.apiBase }

// Register attaches the console routes to mux.
//
//	GET /healthz     -> Prometheus exposition
//	GET /status      -> console and backend status (when a provider is set)
//	    <api base>/  -> backend proxy, any method
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	health := NewHealthHandler(s.gatherer)
	mux.Handle("GET /healthz", MetricsMiddleware(s.metrics, "healthz", http.HandlerFunc(health.HandleHealth)))

	if s.status != nil {
		status := NewStatusHandler(s.status)
		mux.Handle("GET /status", MetricsMiddleware(s.metrics, "status", http.HandlerFunc(status.HandleStatus)))
	}

	mux.Handle(s.apiBase+"/", MetricsMiddleware(s.metrics, "api_proxy", s.proxy))

	s.logger.Info(ctx, "console routes registered", logger.String("api_base", s.apiBase))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
