package steadyhttp

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

// RequestSpec describes one outbound request. It is immutable once
// constructed: the client and transport only read it, and each attempt gets
// a fresh body reader built from Body, so retries replay the payload safely.
type RequestSpec struct {
	// Method is the HTTP method; empty means GET.
	Method string
	// URL is the absolute target URL.
	URL string
	// Headers are set verbatim on the outgoing request.
	Headers map[string]string
	// Body is the request payload, if any.
	Body []byte
	// Timeout bounds the whole logical send, including admission waits,
	// retries, and backoff sleeps. Zero means no per-request deadline.
	Timeout time.Duration
}

// httpRequest materialises the request as a *http.Request bound to ctx.
func (s RequestSpec) httpRequest(ctx context.Context) (*http.Request, error) {
	method := s.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(s.Body) > 0 {
		body = bytes.NewReader(s.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.URL, body)
	if err != nil {
		return nil, err
	}

	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// Response is the transport's view of an HTTP response, with the body fully
// read and the connection already released.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	// Elapsed is the wall time the transport spent on this attempt.
	Elapsed time.Duration
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}
