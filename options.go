package steadyhttp

import (
	"net/http"
	"time"
)

// Option configures a [Client].
type Option func(*clientConfig)

// WithRateLimit bounds admitted attempts to rps tokens per second with the
// given burst capacity. A non-positive burst defaults to rps rounded down
// (minimum 1). Without this option the client applies no admission control.
func WithRateLimit(rps float64, burst int) Option {
	return func(cfg *clientConfig) {
		cfg.rps = rps
		cfg.burst = burst
	}
}

// WithRetryPolicy replaces the whole retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(cfg *clientConfig) {
		cfg.policy = p
	}
}

// WithMaxRetries caps re-attempts after the first try.
func WithMaxRetries(n int) Option {
	return func(cfg *clientConfig) {
		cfg.policy.MaxRetries = n
	}
}

// WithBackoff sets the backoff bounds and jitter mode.
func WithBackoff(base, max time.Duration, jitter Jitter) Option {
	return func(cfg *clientConfig) {
		cfg.policy.BaseDelay = base
		cfg.policy.MaxDelay = max
		cfg.policy.Jitter = jitter
	}
}

// WithClassifier overrides the default retryable/fatal mapping.
func WithClassifier(fn Classifier) Option {
	return func(cfg *clientConfig) {
		if fn != nil {
			cfg.classify = fn
		}
	}
}

// WithClock sets the clock used for admission and backoff timing.
func WithClock(c Clock) Option {
	return func(cfg *clientConfig) {
		if c != nil {
			cfg.clock = c
		}
	}
}

// WithRandSource sets the random source consumed by jittered backoff,
// allowing deterministic delays in tests.
func WithRandSource(src RandSource) Option {
	return func(cfg *clientConfig) {
		cfg.rand = src
	}
}

// WithHooks sets the lifecycle hooks observed by the client.
func WithHooks(h Hooks) Option {
	return func(cfg *clientConfig) {
		cfg.hooks = h
	}
}

// WithAcquireTimeout bounds how long one attempt may wait for rate-limit
// admission before failing with ErrRateLimitTimeout. Zero or less means
// wait as long as the request context allows.
func WithAcquireTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) {
		cfg.acquireTimeout = d
	}
}

// WithRetryOptions appends executor options applied to every Send.
func WithRetryOptions(opts ...RetryOption) Option {
	return func(cfg *clientConfig) {
		cfg.retryOpts = append(cfg.retryOpts, opts...)
	}
}

// WithHTTPClient sets the *http.Client used when New builds its default
// transport. Ignored when an explicit Transport is passed to New.
func WithHTTPClient(hc *http.Client) Option {
	return func(cfg *clientConfig) {
		cfg.httpClient = hc
	}
}
