package steadyhttp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// DefaultMaxResponseSize caps how many response body bytes the default
// transport will buffer.
const DefaultMaxResponseSize int64 = 10 << 20 // 10 MiB

// Transport is the network capability the client composes around. It owns
// connection pooling, TLS, and DNS; the resilience layer treats a call as an
// opaque suspend-until-complete step.
type Transport interface {
	// Perform executes one attempt. Non-2xx/3xx statuses are returned as a
	// *StatusError alongside the decoded response.
	Perform(ctx context.Context, spec RequestSpec) (*Response, error)
}

// TransportFunc adapts an ordinary function into a [Transport].
type TransportFunc func(ctx context.Context, spec RequestSpec) (*Response, error)

// Perform calls the underlying function.
func (f TransportFunc) Perform(ctx context.Context, spec RequestSpec) (*Response, error) {
	return f(ctx, spec)
}

// StatusError reports a response with an HTTP error status. The full
// response remains accessible for header and body inspection.
type StatusError struct {
	StatusCode int
	Response   *Response
}

// Error returns a human-readable description of the status error.
func (e *StatusError) Error() string {
	return "http status " + strconv.Itoa(e.StatusCode)
}

// Temporary reports whether the status indicates a transient server-side
// condition (429 or any 5xx).
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// RetryAfter returns the server-provided wait from a Retry-After header,
// when present and expressed in seconds.
func (e *StatusError) RetryAfter() (time.Duration, bool) {
	if e.Response == nil {
		return 0, false
	}

	v := e.Response.Headers.Get("Retry-After")
	if v == "" {
		return 0, false
	}

	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs < 0 {
		return 0, false
	}

	return time.Duration(secs * float64(time.Second)), true
}

// HTTPTransport is the default [Transport], backed by a *http.Client.
//
// Pattern: Adapter — bridges net/http and the resilience layer by
// translating HTTP statuses into classifiable errors.
type HTTPTransport struct {
	client          *http.Client
	maxResponseSize int64
}

// TransportOption configures an [HTTPTransport].
type TransportOption func(*HTTPTransport)

// MaxResponseSize caps the number of response body bytes buffered per
// attempt. Responses over the cap fail fatally.
func MaxResponseSize(n int64) TransportOption {
	return func(t *HTTPTransport) {
		if n > 0 {
			t.maxResponseSize = n
		}
	}
}

// NewHTTPTransport creates a transport over hc. A nil hc gets a client with
// a 30 second timeout.
func NewHTTPTransport(hc *http.Client, opts ...TransportOption) *HTTPTransport {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}

	t := &HTTPTransport{
		client:          hc,
		maxResponseSize: DefaultMaxResponseSize,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Perform executes one HTTP attempt. Request construction failures are
// marked [Fatal] because a malformed request can never succeed on retry;
// network-level failures pass through for the classifier to judge.
func (t *HTTPTransport) Perform(ctx context.Context, spec RequestSpec) (*Response, error) {
	req, err := spec.httpRequest(ctx)
	if err != nil {
		return nil, Fatal(fmt.Errorf("build request: %w", err))
	}

	start := time.Now()

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxResponseSize+1))
	if err != nil {
		return nil, err
	}

	if int64(len(body)) > t.maxResponseSize {
		return nil, Fatal(fmt.Errorf("response body exceeds %d bytes", t.maxResponseSize))
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
		Elapsed:    time.Since(start),
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return out, &StatusError{StatusCode: resp.StatusCode, Response: out}
	}

	return out, nil
}

// Close releases idle connections held by the underlying client.
func (t *HTTPTransport) Close() {
	t.client.CloseIdleConnections()
}
