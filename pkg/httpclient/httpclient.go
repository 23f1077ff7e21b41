// Package httpclient is the fluent, retry-aware client orderdesk uses to talk
// to the REST backend. It is a thin layer over go-resty that adds what every
// backend call needs: a per-attempt timeout, exponential backoff, request-id
// propagation, request-scoped logging and latency metrics.
//
// Usage:
//
//	c := httpclient.New(config.BackendURL(), httpclient.WithTimeout(config.BackendTimeout()))
//
//	resp, err := c.Get("/sale-orders").
//	    Query("paid", "false").
//	    WithContext(r.Context()).
//	    Send()
//
//	var orders []models.SaleOrder
//	err = resp.JSON(&orders)
//
//	resp, err := c.Post("/sale-orders").Body(order).WithContext(ctx).Send()
package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
	"github.com/shashiranjanraj/orderdesk/pkg/reqid"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultRetries   = 1
	defaultRetryWait = 200 * time.Millisecond
)

// ------------------- Client -------------------

// Client is bound to one backend base URL. It is safe for concurrent use.
type Client struct {
	rc        *resty.Client
	baseURL   string
	timeout   time.Duration
	retries   int
	retryWait time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the default per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetry sets the default attempt count (1 = no retry) and initial backoff.
// The count applies to GET, PUT and DELETE only; POST and PATCH requests are
// sent once unless Request.Retry says otherwise.
func WithRetry(n int, wait time.Duration) Option {
	return func(c *Client) {
		if n > 0 {
			c.retries = n
		}
		c.retryWait = wait
	}
}

// WithTransport swaps the underlying RoundTripper. Tests use it to point the
// client at a fake.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.rc.SetTransport(rt) }
}

// New creates a client for baseURL (e.g. "http://localhost:3000").
func New(baseURL string, opts ...Option) *Client {
	rc := resty.New().
		SetHeader("Accept", "application/json").
		SetTransport(&http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 50,
			IdleConnTimeout:     90 * time.Second,
		})

	c := &Client{
		rc:        rc,
		baseURL:   strings.TrimRight(baseURL, "/"),
		timeout:   defaultTimeout,
		retries:   defaultRetries,
		retryWait: defaultRetryWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root this client was built for.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(path string) *Request    { return c.newRequest(http.MethodGet, path) }
func (c *Client) Post(path string) *Request   { return c.newRequest(http.MethodPost, path) }
func (c *Client) Put(path string) *Request    { return c.newRequest(http.MethodPut, path) }
func (c *Client) Patch(path string) *Request  { return c.newRequest(http.MethodPatch, path) }
func (c *Client) Delete(path string) *Request { return c.newRequest(http.MethodDelete, path) }

func (c *Client) newRequest(method, path string) *Request {
	retries := c.retries
	if !idempotent(method) {
		retries = 1
	}
	return &Request{
		client:    c,
		method:    method,
		path:      path,
		headers:   map[string]string{},
		query:     url.Values{},
		timeout:   c.timeout,
		retries:   retries,
		retryWait: c.retryWait,
		ctx:       context.Background(),
	}
}

// idempotent reports whether repeating a request with method leaves the
// backend as one delivery would. A timed-out POST may still have been applied.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}

// ------------------- Request -------------------

// Request is a fluent request builder. Build it, then call Send once.
type Request struct {
	client    *Client
	method    string
	path      string
	headers   map[string]string
	query     url.Values
	body      interface{}
	timeout   time.Duration
	retries   int
	retryWait time.Duration
	ctx       context.Context
}

func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Query adds a query-string parameter. Repeated keys are kept.
func (r *Request) Query(key, value string) *Request {
	r.query.Add(key, value)
	return r
}

// Body sets the request body; anything but string/[]byte is sent as JSON.
func (r *Request) Body(v interface{}) *Request {
	r.body = v
	return r
}

// Timeout overrides the per-attempt timeout.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Retry configures automatic retries on transport failure.
// n is total attempts (1 = no retry), wait is the initial backoff (doubles each attempt).
func (r *Request) Retry(n int, wait time.Duration) *Request {
	r.retries = n
	r.retryWait = wait
	return r
}

// WithContext binds the request to ctx. Cancelling ctx aborts the in-flight
// attempt and any pending retry.
func (r *Request) WithContext(ctx context.Context) *Request {
	if ctx != nil {
		r.ctx = ctx
	}
	return r
}

// URL returns the absolute URL the request will hit.
func (r *Request) URL() string {
	u := r.client.baseURL + "/" + strings.TrimLeft(r.path, "/")
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	return u
}

// ------------------- Send -------------------

// Send executes the request and returns a Response. A non-2xx status is not
// an error here; use Response.Throw or inspect StatusCode.
func (r *Request) Send() (*Response, error) {
	log := logger.WithCtx(r.ctx)
	attempts := r.retries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := r.do()
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if r.ctx.Err() != nil || attempt == attempts {
			break
		}

		backoff := time.Duration(float64(r.retryWait) * math.Pow(2, float64(attempt-1)))
		log.Warn("httpclient: request failed, retrying",
			"method", r.method, "url", r.URL(), "attempt", attempt, "backoff", backoff, "error", err)

		select {
		case <-time.After(backoff):
		case <-r.ctx.Done():
			lastErr = r.ctx.Err()
		}
	}

	return nil, fmt.Errorf("httpclient: %s %s: %w", r.method, r.URL(), lastErr)
}

func (r *Request) do() (*Response, error) {
	start := time.Now()
	resource := resourceOf(r.path)

	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	req := r.client.rc.R().SetContext(ctx)
	if id := reqid.FromCtx(r.ctx); id != "" {
		req.SetHeader(reqid.Header, id)
	}
	for k, v := range r.headers {
		req.SetHeader(k, v)
	}
	if len(r.query) > 0 {
		req.SetQueryParamsFromValues(r.query)
	}
	if r.body != nil {
		switch v := r.body.(type) {
		case string, []byte:
			req.SetBody(v)
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("marshal body: %w", err)
			}
			req.SetHeader("Content-Type", "application/json").SetBody(b)
		}
	}

	endpoint := r.client.baseURL + "/" + strings.TrimLeft(r.path, "/")
	res, err := req.Execute(r.method, endpoint)
	if err != nil {
		metrics.ObserveBackend(r.method, resource, "error", start)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && r.ctx.Err() == nil {
			return nil, fmt.Errorf("timed out after %s: %w", r.timeout, err)
		}
		return nil, err
	}

	metrics.ObserveBackend(r.method, resource, strconv.Itoa(res.StatusCode()), start)
	logger.WithCtx(r.ctx).Debug("httpclient: backend call",
		"method", r.method, "url", r.URL(), "status", res.StatusCode(), "elapsed", time.Since(start))

	return &Response{
		StatusCode: res.StatusCode(),
		Headers:    res.Header(),
		Raw:        res.Body(),
	}, nil
}

// resourceOf keeps metric cardinality low: "/sale-orders/7" → "sale-orders".
func resourceOf(path string) string {
	p := strings.Trim(path, "/")
	if i := strings.IndexAny(p, "/?"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "root"
	}
	return p
}

// ------------------- Response -------------------

type Response struct {
	StatusCode int
	Headers    http.Header
	Raw        []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest interface{}) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("httpclient: decode JSON: %w", err)
	}
	return nil
}

func (r *Response) Text() string { return string(r.Raw) }

// Throw returns a *StatusError if the response status is not 2xx.
func (r *Response) Throw() error {
	if !r.OK() {
		return &StatusError{Code: r.StatusCode, Body: string(r.Raw)}
	}
	return nil
}

// StatusError is returned by Throw for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("httpclient: request failed with status %d: %s", e.Code, body)
}
