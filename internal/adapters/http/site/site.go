package site

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/rpaconsole/pkg/logger"
	"github.com/okian/rpaconsole/pkg/metrics"
)

// DefaultAPIBase is the path the placeholder views call when no base is
// given.
const DefaultAPIBase = "/api"

type options struct {
	views   map[string]http.Handler
	apiBase string
	metrics *metrics.Manager
	logger  logger.Logger
}

// Option configures Register.
type Option func(*options)

// WithView serves h for the named route instead of the embedded placeholder.
func WithView(name string, h http.Handler) Option {
	return func(o *options) {
		if h != nil {
			o.views[name] = h
		}
	}
}

// WithAPIBase sets the path prefix the placeholder views send API calls to.
func WithAPIBase(base string) Option {
	return func(o *options) {
		if base != "" {
			o.apiBase = strings.TrimRight(base, "/")
		}
	}
}

// WithMetrics sets where route hits are counted.
func WithMetrics(m *metrics.Manager) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Register attaches the navigation routes to mux:
//
//	GET /            -> 302 to the default route
//	GET /task-config -> task configuration view
//	GET /monitor     -> execution monitor view
//	GET /assets/...  -> embedded static assets
//
// Any other path is left to mux, which answers 404.
func Register(ctx context.Context, mux *http.ServeMux, opts ...Option) error {
	if mux == nil {
		panic("mux is nil")
	}
	o := options{
		views:   make(map[string]http.Handler),
		apiBase: DefaultAPIBase,
		metrics: metrics.Default(),
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	for name := range o.views {
		if _, ok := Lookup(name); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownRoute, name)
		}
	}

	def := DefaultRoute()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, def.Path, http.StatusFound)
	})

	for _, route := range Routes() {
		view, ok := o.views[route.Name]
		if !ok {
			var err error
			if view, err = placeholder(route.Name, o.apiBase); err != nil {
				return err
			}
		}
		mux.Handle("GET "+route.Path, counted(o.metrics, route.Name, view))
		o.logger.Debug(ctx, "navigation route registered",
			logger.String("route", route.Name),
			logger.String("path", route.Path),
			logger.Any("custom_view", ok))
	}

	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(FS())))
	return nil
}

func counted(m *metrics.Manager, route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.RecordRouteHit(route)
		next.ServeHTTP(w, r)
	})
}
