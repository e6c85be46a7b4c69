// Package client is the HTTP facade over the RPA backend API. Every endpoint
// call goes through Request, which applies the shared header, status and
// content-type policy; HealthCheck, TestAI and Ping are the exceptions and
// talk to the backend directly.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rpaconsole/pkg/logger"
	"github.com/okian/rpaconsole/pkg/metrics"
)

// Defaults used when the matching option is not given.
const (
	DefaultBaseURL = "http://localhost:5173/api"
	DefaultLimit   = 20

	headerContentType = "Content-Type"
	headerRequestID   = "X-Request-ID"
	mimeJSON          = "application/json"
	mimeText          = "text/plain"

	customEndpoint = "request"
)

// Doer is the transport the facade sends requests through. *http.Client
// satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is safe for concurrent use; nothing in it changes after New.
type Client struct {
	base         string
	doer         Doer
	decoders     decoderSet
	logger       logger.Logger
	metrics      *metrics.Manager
	defaultLimit int
	newID        func() string
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the absolute URL the API is mounted under, e.g.
// http://localhost:5173/api.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.base = base
		}
	}
}

// WithHTTPClient replaces the transport.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.doer = d
		}
	}
}

// WithLogger sets the diagnostic logger failures are written to.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics manager calls are recorded on.
func WithMetrics(m *metrics.Manager) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithDefaultLimit sets the limit GetRecentLogs uses when given none.
func WithDefaultLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.defaultLimit = n
		}
	}
}

// WithDecoder selects d for responses whose content type contains
// mediaType. Later registrations take precedence over earlier ones and over
// the built-in JSON rule.
func WithDecoder(mediaType string, d Decoder) Option {
	return func(c *Client) {
		if mediaType != "" && d != nil {
			c.decoders.prepend(mediaType, d)
		}
	}
}

// WithRequestIDFunc overrides how X-Request-ID values are generated.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// New builds a Client. It fails only when the base URL is not absolute.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		base:         DefaultBaseURL,
		doer:         http.DefaultClient,
		decoders:     defaultDecoders(),
		logger:       logger.Nop(),
		metrics:      metrics.Default(),
		defaultLimit: DefaultLimit,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}

	u, err := url.Parse(c.base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.base)
	}
	c.base = strings.TrimRight(c.base, "/")
	c.logger = c.logger.Named("client")
	return c, nil
}

// BaseURL returns the base every path is appended to.
func (c *Client) BaseURL() string { return c.base }

// RequestOptions are the recognised request fields. Method defaults to GET.
// Headers are applied over Content-Type: application/json; caller entries
// win. A nil Body sends no body.
type RequestOptions struct {
	Method  string
	Headers map[string]string
	Body    []byte
}

// Response is a successful reply. Value holds the decoded JSON value when
// Kind is KindJSON and the body string when Kind is KindText.
type Response struct {
	Status      int
	ContentType string
	Kind        Kind
	Value       any
	Body        []byte
}

// Text returns the raw body.
func (r *Response) Text() string { return string(r.Body) }

// Bind decodes the raw body as JSON into v.
func (r *Response) Bind(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &DecodeError{ContentType: r.ContentType, Err: err}
	}
	return nil
}

// Request issues exactly one call to base+path. No retry and no timeout is
// applied; ctx is the only way to abandon a call. A status outside 200-299
// yields *HTTPStatusError and no Response. Failures are logged once here and
// returned unchanged.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (*Response, error) {
	return c.do(ctx, customEndpoint, path, opts)
}

func (c *Client) do(ctx context.Context, endpoint, path string, opts RequestOptions) (*Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	target := c.base + path
	requestID := c.newID()
	start := time.Now()

	fail := func(status string, err error) (*Response, error) {
		c.metrics.RecordAPIRequest(endpoint, method, status, sinceMs(start))
		c.metrics.RecordAPIError(endpoint, errorKind(err))
		c.logger.Error(ctx, "api request failed",
			logger.String("method", method),
			logger.String("url", target),
			logger.String("request_id", requestID),
			logger.Error(err))
		return nil, err
	}

	var body io.Reader = http.NoBody
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fail("error", &TransportError{Method: method, URL: target, Err: err})
	}
	req.Header.Set(headerContentType, mimeJSON)
	req.Header.Set(headerRequestID, requestID)
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return fail("error", &TransportError{Method: method, URL: target, Err: err})
	}
	defer func() { _ = resp.Body.Close() }()

	status := strconv.Itoa(resp.StatusCode)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fail(status, &HTTPStatusError{Method: method, URL: target, Status: resp.StatusCode})
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(status, &TransportError{Method: method, URL: target, Err: err})
	}

	contentType := resp.Header.Get(headerContentType)
	dec := c.decoders.pick(contentType)
	value, err := dec.Decode(raw)
	if err != nil {
		return fail(status, &DecodeError{ContentType: contentType, Err: err})
	}

	c.metrics.RecordAPIRequest(endpoint, method, status, sinceMs(start))
	c.logger.Debug(ctx, "api request completed",
		logger.String("method", method),
		logger.String("url", target),
		logger.String("request_id", requestID),
		logger.Int("status", resp.StatusCode))

	return &Response{
		Status:      resp.StatusCode,
		ContentType: contentType,
		Kind:        dec.Kind(),
		Value:       value,
		Body:        raw,
	}, nil
}

// fetchText is the bypass path: a bare GET whose body is returned as text
// whatever the status. It neither checks the status nor logs; transport
// failures still come back as *TransportError because there is no body.
func (c *Client) fetchText(ctx context.Context, endpoint, path string) (string, error) {
	target := c.base + path
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return "", &TransportError{Method: http.MethodGet, URL: target, Err: err}
	}
	req.Header.Set(headerRequestID, c.newID())

	resp, err := c.doer.Do(req)
	if err != nil {
		c.metrics.RecordAPIRequest(endpoint, http.MethodGet, "error", sinceMs(start))
		return "", &TransportError{Method: http.MethodGet, URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	status := strconv.Itoa(resp.StatusCode)
	c.metrics.RecordAPIRequest(endpoint, http.MethodGet, status, sinceMs(start))
	c.metrics.RecordBypassResponse(endpoint, status)
	if err != nil {
		return "", &TransportError{Method: http.MethodGet, URL: target, Err: err}
	}
	return string(raw), nil
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
