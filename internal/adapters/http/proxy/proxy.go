// Package proxy forwards console API calls to the backend during
// development. Paths are kept as-is and appended to the target path; only
// the Host header is rewritten to the target's.
package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/rpaconsole/pkg/logger"
	"github.com/okian/rpaconsole/pkg/metrics"
)

// DefaultTarget is where the backend listens in development.
const DefaultTarget = "http://localhost:8080/rpa-ai"

// Proxy is an http.Handler that forwards to a single target.
type Proxy struct {
	target    *url.URL
	rp        *httputil.ReverseProxy
	transport http.RoundTripper
	metrics   *metrics.Manager
	logger    logger.Logger
}

// Option configures a Proxy.
type Option func(*Proxy)

// WithTransport replaces the round tripper used for upstream calls.
func WithTransport(rt http.RoundTripper) Option {
	return func(p *Proxy) {
		if rt != nil {
			p.transport = rt
		}
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(p *Proxy) {
		if m != nil {
			p.metrics = m
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(p *Proxy) {
		if l != nil {
			p.logger = l
		}
	}
}

// New returns a proxy to target, which must be an absolute http(s) URL.
func New(target string, opts ...Option) (*Proxy, error) {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, target)
	}

	p := &Proxy{
		target:    u,
		transport: http.DefaultTransport,
		metrics:   metrics.Default(),
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named("proxy")

	p.rp = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(p.target)
			pr.SetXForwarded()
		},
		Transport:    p.transport,
		ErrorHandler: p.handleError,
	}
	return p, nil
}

// Target returns the upstream base URL.
func (p *Proxy) Target() string { return p.target.String() }

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	p.rp.ServeHTTP(rec, r)
	p.metrics.RecordProxyRequest(r.Method, strconv.Itoa(rec.status),
		float64(time.Since(start).Microseconds())/1000)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	p.metrics.RecordProxyError()
	p.logger.Error(r.Context(), "proxy upstream failed",
		logger.String("method", r.Method),
		logger.String("path", r.URL.Path),
		logger.String("target", p.target.String()),
		logger.Error(err))

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusBadGateway)
	_ = json.NewEncoder(w).Encode(errorBody{
		Code:    "bad_gateway",
		Message: fmt.Sprintf("%v: %s", ErrUpstream, p.target.Host),
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Flush keeps streamed responses flowing through the recorder.
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }
