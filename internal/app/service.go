// Package service assembles the console: the backend client, the
// development proxy, the console routes, the API reference and the
// navigation views.
package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/okian/rpaconsole/internal/adapters/http/api"
	"github.com/okian/rpaconsole/internal/adapters/http/client"
	"github.com/okian/rpaconsole/internal/adapters/http/proxy"
	"github.com/okian/rpaconsole/internal/adapters/http/site"
	"github.com/okian/rpaconsole/internal/adapters/http/swagger"
	"github.com/okian/rpaconsole/internal/config"
	"github.com/okian/rpaconsole/pkg/logger"
	"github.com/okian/rpaconsole/pkg/metrics"
)

// Console wires every console component from one Config.
type Console struct {
	mu sync.Mutex

	cfg      *config.Config
	client   *client.Client
	proxy    *proxy.Proxy
	server   *api.Server
	handler  http.Handler
	started  time.Time
	views    []site.Option
	doer     client.Doer
	upstream http.RoundTripper

	metrics  *metrics.Manager
	gatherer prometheus.Gatherer
	logger   logger.Logger
}

// Option applies a configuration option to the Console.
type Option func(*Console)

// WithLogger sets a custom logger for the console.
func WithLogger(l logger.Logger) Option {
	return func(c *Console) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRegistry records metrics on reg and exposes reg on /healthz.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(c *Console) {
		if reg != nil {
			c.metrics = metrics.NewManager(metrics.WithPrometheusRegistry(reg))
			c.gatherer = reg
		}
	}
}

// WithView replaces the placeholder page of a navigation route.
func WithView(route string, h http.Handler) Option {
	return func(c *Console) {
		c.views = append(c.views, site.WithView(route, h))
	}
}

// WithHTTPClient sets the transport used for the console's own backend calls.
func WithHTTPClient(d client.Doer) Option {
	return func(c *Console) {
		if d != nil {
			c.doer = d
		}
	}
}

// WithUpstreamTransport sets the round tripper the proxy forwards with.
func WithUpstreamTransport(rt http.RoundTripper) Option {
	return func(c *Console) {
		if rt != nil {
			c.upstream = rt
		}
	}
}

// New validates cfg and builds the console components.
func New(cfg *config.Config, opts ...Option) (*Console, error) {
	if cfg == nil {
		return nil, ErrNoConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Console{
		cfg:      cfg,
		metrics:  metrics.Default(),
		gatherer: metrics.GetRegistry(),
		logger:   logger.Nop(),
		doer:     http.DefaultClient,
		upstream: http.DefaultTransport,
		started:  time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}

	var err error
	c.client, err = client.New(
		client.WithBaseURL(cfg.BackendAPIURL()),
		client.WithHTTPClient(c.doer),
		client.WithDefaultLimit(cfg.DefaultLimit),
		client.WithLogger(c.logger),
		client.WithMetrics(c.metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWiring, err)
	}

	c.proxy, err = proxy.New(cfg.BackendURL,
		proxy.WithTransport(c.upstream),
		proxy.WithLogger(c.logger),
		proxy.WithMetrics(c.metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWiring, err)
	}

	c.server, err = api.NewServer(
		api.WithProxy(c.proxy),
		api.WithAPIBase(cfg.APIBase),
		api.WithStatusProvider(c),
		api.WithGatherer(c.gatherer),
		api.WithMetrics(c.metrics),
		api.WithLogger(c.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWiring, err)
	}
	return c, nil
}

// Client returns the console's backend client.
func (c *Console) Client() *client.Client { return c.client }

// Handler returns the console's HTTP handler, building it on first use.
func (c *Console) Handler(ctx context.Context) (http.Handler, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handler != nil {
		return c.handler, nil
	}

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	c.server.Register(ctx, mux)

	siteOpts := append([]site.Option{
		site.WithAPIBase(c.server.APIBase()),
		site.WithMetrics(c.metrics),
		site.WithLogger(c.logger),
	}, c.views...)
	if err := site.Register(ctx, mux, siteOpts...); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWiring, err)
	}

	c.logger.Info(ctx, "console ready",
		logger.String("api_base", c.server.APIBase()),
		logger.String("backend", c.proxy.Target()),
		logger.String("default_route", site.DefaultRoute().Path))

	c.handler = mux
	return mux, nil
}

// Status reports the console settings and asks the backend for its health
// text. The health call bypasses status checks, so only transport failures
// mark the backend unhealthy.
func (c *Console) Status(ctx context.Context) api.Status {
	st := api.Status{
		APIBase:       c.server.APIBase(),
		BackendURL:    c.cfg.BackendURL,
		UptimeSeconds: time.Since(c.started).Seconds(),
	}
	text, err := c.client.HealthCheck(ctx)
	if err != nil {
		st.BackendError = err.Error()
		c.logger.Warn(ctx, "backend health check failed", logger.Error(err))
		return st
	}
	st.Backend = text
	st.BackendHealthy = true
	return st
}
