package steadyhttp

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Default retry configuration, matching the layer's conservative posture for
// talking to third-party APIs.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 1 * time.Second
	DefaultMaxDelay   = 30 * time.Second
)

// RetryPolicy is the immutable retry configuration shared read-only across
// concurrent invocations.
type RetryPolicy struct {
	// MaxRetries caps the number of re-attempts after the first try, so the
	// work runs at most MaxRetries+1 times. Negative values are treated as 0.
	MaxRetries int
	// BaseDelay is the backoff delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the computed backoff delay.
	MaxDelay time.Duration
	// Jitter selects how delays are randomised.
	Jitter Jitter
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		MaxDelay:   DefaultMaxDelay,
		Jitter:     JitterNone,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}

	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}

	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultMaxDelay
	}

	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = p.BaseDelay
	}

	return p
}

// retryConfig holds the optional configuration for one execution.
type retryConfig struct {
	perAttemptTimeout time.Duration    // 0 means no per-attempt timeout
	retryIf           func(error) bool // nil means classifier decides alone
	strategy          BackoffStrategy  // nil means derive from the policy
	rand              RandSource       // nil means the shared generator
}

// RetryOption configures retry behavior.
type RetryOption func(*retryConfig)

// PerAttemptTimeout sets a timeout for each individual attempt.
func PerAttemptTimeout(d time.Duration) RetryOption {
	return func(cfg *retryConfig) {
		cfg.perAttemptTimeout = d
	}
}

// RetryIf sets a custom predicate consulted after the classifier; returning
// false stops retrying even for retryable errors.
func RetryIf(fn func(error) bool) RetryOption {
	return func(cfg *retryConfig) {
		cfg.retryIf = fn
	}
}

// Backoff overrides the policy-derived backoff strategy.
func Backoff(s BackoffStrategy) RetryOption {
	return func(cfg *retryConfig) {
		cfg.strategy = s
	}
}

// BackoffRand sets the random source consumed by jittered backoff.
func BackoffRand(src RandSource) RetryOption {
	return func(cfg *retryConfig) {
		cfg.rand = src
	}
}

// retryAfterHint is implemented by errors that carry a server-provided wait,
// such as a 429 response with a Retry-After header.
type retryAfterHint interface {
	RetryAfter() (time.Duration, bool)
}

// Execute runs work until it succeeds, fails fatally, exhausts the policy's
// attempt budget, or the caller cancels. Between attempts it sleeps for the
// backoff delay via clock, honoring a server-provided Retry-After hint when
// the last error carries one (capped at the policy's max delay).
//
// Execute itself never logs; observers attach through hooks.
func Execute[T any](
	ctx context.Context,
	policy RetryPolicy,
	classify Classifier,
	work func(context.Context) (T, error),
	hooks *Hooks,
	clock Clock,
	opts ...RetryOption,
) Outcome[T] {
	var cfg retryConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	policy = policy.normalized()

	if classify == nil {
		classify = DefaultClassifier
	}

	if clock == nil {
		clock = RealClock{}
	}

	strategy := cfg.strategy
	if strategy == nil {
		strategy = newExponentialBackoff(policy.BaseDelay, policy.MaxDelay, policy.Jitter, cfg.rand)
	}

	attempts := 0

	var lastErr error

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return failure[T](cancelled(err), attempts)
		}

		var (
			result T
			err    error
		)

		if cfg.perAttemptTimeout > 0 {
			attemptCtx, attemptCancel := context.WithTimeout(ctx, cfg.perAttemptTimeout)
			result, err = work(attemptCtx)
			attemptCancel()
		} else {
			result, err = work(ctx)
		}

		attempts = attempt + 1

		if err == nil {
			return success(result, attempts)
		}

		lastErr = err

		// A caller-initiated abort inside the work is terminal, not a
		// transport failure to classify.
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return failure[T](cancelled(ctx.Err()), attempts)
		}

		if classify(err) == ClassFatal {
			return failure[T](err, attempts)
		}

		if cfg.retryIf != nil && !cfg.retryIf(err) {
			return failure[T](err, attempts)
		}

		if attempt == policy.MaxRetries {
			return failure[T](
				fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempts, lastErr),
				attempts,
			)
		}

		delay := strategy.Delay(attempt)

		var hint retryAfterHint
		if errors.As(err, &hint) {
			if d, ok := hint.RetryAfter(); ok {
				if d > policy.MaxDelay {
					d = policy.MaxDelay
				}

				delay = d
			}
		}

		hooks.emitRetry(attempt+1, err, delay)

		timer := clock.NewTimer(delay)
		select {
		case <-timer.C():
			// Timer fired, proceed to next attempt.
		case <-ctx.Done():
			timer.Stop()
			return failure[T](cancelled(ctx.Err()), attempts)
		}
	}
}
