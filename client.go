package steadyhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

// Client is the composed resilient entry point: a shared token-bucket rate
// limiter and a retry executor wrapped around one [Transport]. A single
// Client is safe for use by many concurrent callers; they all draw from the
// same token budget.
//
// Rate limiting applies per attempt, not per logical request, so retries
// consume additional budget.
type Client struct {
	transport     Transport
	ownsTransport bool

	limiter        *RateLimiter
	policy         RetryPolicy
	classify       Classifier
	clock          Clock
	hooks          Hooks
	acquireTimeout time.Duration
	retryOpts      []RetryOption

	closed atomic.Bool

	totalRequests atomic.Uint64
	totalErrors   atomic.Uint64
	rateLimited   atomic.Uint64
}

// clientConfig collects option values before the Client is wired up.
type clientConfig struct {
	rps            float64
	burst          int
	policy         RetryPolicy
	classify       Classifier
	clock          Clock
	rand           RandSource
	hooks          Hooks
	acquireTimeout time.Duration
	retryOpts      []RetryOption
	httpClient     *http.Client
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		policy:         DefaultRetryPolicy(),
		classify:       DefaultClassifier,
		clock:          RealClock{},
		acquireTimeout: 30 * time.Second,
	}
}

// New creates a resilient client around transport. A nil transport gets a
// default [HTTPTransport] owned (and closed) by the client. Without
// [WithRateLimit] the client applies no admission control.
func New(transport Transport, opts ...Option) *Client {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	owns := false

	if transport == nil {
		transport = NewHTTPTransport(cfg.httpClient)
		owns = true
	}

	retryOpts := cfg.retryOpts
	if cfg.rand != nil {
		retryOpts = append([]RetryOption{BackoffRand(cfg.rand)}, retryOpts...)
	}

	c := &Client{
		transport:      transport,
		ownsTransport:  owns,
		policy:         cfg.policy,
		classify:       cfg.classify,
		clock:          cfg.clock,
		hooks:          cfg.hooks,
		acquireTimeout: cfg.acquireTimeout,
		retryOpts:      retryOpts,
	}

	if cfg.rps > 0 {
		burst := cfg.burst
		if burst < 1 {
			burst = int(cfg.rps)
			if burst < 1 {
				burst = 1
			}
		}

		c.limiter = NewRateLimiter(cfg.rps, burst, cfg.clock, &c.hooks)
	}

	return c
}

// Send executes the request with rate limiting and retries and returns the
// terminal [Outcome]. A Timeout set on the request bounds the whole logical
// send. Terminal errors are ErrRateLimitTimeout, ErrRetriesExhausted,
// ErrCancelled, or the fatal transport error itself.
func (c *Client) Send(ctx context.Context, spec RequestSpec) Outcome[*Response] {
	if c.closed.Load() {
		return failure[*Response](ErrClientClosed, 0)
	}

	c.totalRequests.Add(1)

	if spec.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	work := func(ctx context.Context) (*Response, error) {
		if c.limiter != nil {
			if err := c.limiter.Acquire(ctx, 1, c.acquireTimeout); err != nil {
				if errors.Is(err, ErrRateLimitTimeout) {
					c.rateLimited.Add(1)
				}
				// Admission failures are terminal; retrying would draw down
				// the same exhausted budget.
				return nil, Fatal(err)
			}
		}

		c.hooks.emitRequest(spec)

		resp, err := c.transport.Perform(ctx, spec)
		if err != nil {
			return nil, err
		}

		c.hooks.emitResponse(spec, resp)

		return resp, nil
	}

	out := Execute(ctx, c.policy, c.classify, work, &c.hooks, c.clock, c.retryOpts...)
	if out.Err != nil {
		c.totalErrors.Add(1)
	}

	return out
}

// Get sends a GET request to url.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) Outcome[*Response] {
	return c.Send(ctx, RequestSpec{Method: http.MethodGet, URL: url, Headers: headers})
}

// Post sends a POST request with the given body.
func (c *Client) Post(ctx context.Context, url string, body []byte, headers map[string]string) Outcome[*Response] {
	return c.Send(ctx, RequestSpec{Method: http.MethodPost, URL: url, Body: body, Headers: headers})
}

// Put sends a PUT request with the given body.
func (c *Client) Put(ctx context.Context, url string, body []byte, headers map[string]string) Outcome[*Response] {
	return c.Send(ctx, RequestSpec{Method: http.MethodPut, URL: url, Body: body, Headers: headers})
}

// Patch sends a PATCH request with the given body.
func (c *Client) Patch(ctx context.Context, url string, body []byte, headers map[string]string) Outcome[*Response] {
	return c.Send(ctx, RequestSpec{Method: http.MethodPatch, URL: url, Body: body, Headers: headers})
}

// Delete sends a DELETE request to url.
func (c *Client) Delete(ctx context.Context, url string, headers map[string]string) Outcome[*Response] {
	return c.Send(ctx, RequestSpec{Method: http.MethodDelete, URL: url, Headers: headers})
}

// GetJSON sends a GET request and unmarshals the response body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	res := c.Get(ctx, url, map[string]string{"Accept": "application/json"})
	if res.Err != nil {
		return res.Err
	}

	return res.Value.DecodeJSON(out)
}

// PostJSON marshals in as the request body, sends a POST, and unmarshals the
// response into out when out is non-nil.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return Fatal(fmt.Errorf("encode request body: %w", err))
	}

	res := c.Send(ctx, RequestSpec{
		Method:  http.MethodPost,
		URL:     url,
		Body:    payload,
		Headers: map[string]string{"Content-Type": "application/json"},
	})
	if res.Err != nil {
		return res.Err
	}

	if out == nil {
		return nil
	}

	return res.Value.DecodeJSON(out)
}

// Close marks the client closed and releases transport resources the client
// owns. Close is idempotent; Send after Close fails with [ErrClientClosed].
func (c *Client) Close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}

	if !c.ownsTransport {
		return
	}

	if closer, ok := c.transport.(interface{ Close() }); ok {
		closer.Close()
	}
}
