package steadyhttp

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter bounds the rate of admitted operations to refill-rate tokens
// per second steady-state, allowing bursts up to the bucket capacity. One
// instance may be shared by many concurrent callers; all token accounting
// happens inside the underlying [rate.Limiter] under its own lock, so
// refill-check-deduct is a single atomic step.
type RateLimiter struct {
	lim   *rate.Limiter
	clock Clock
	hooks *Hooks
}

// NewRateLimiter creates a token bucket admitting rps tokens per second with
// the given burst capacity. The bucket starts full. A non-positive burst is
// raised to 1.
func NewRateLimiter(rps float64, burst int, clock Clock, hooks *Hooks) *RateLimiter {
	if burst < 1 {
		burst = 1
	}

	if clock == nil {
		clock = RealClock{}
	}

	return &RateLimiter{
		lim:   rate.NewLimiter(rate.Limit(rps), burst),
		clock: clock,
		hooks: hooks,
	}
}

// TryAcquire reports whether n tokens are available right now, deducting
// them if so. State is untouched on rejection.
func (rl *RateLimiter) TryAcquire(n int) bool {
	if n < 1 {
		n = 1
	}

	ok := rl.lim.AllowN(rl.clock.Now(), n)
	if !ok {
		rl.hooks.emitRateLimited(0)
	}

	return ok
}

// Acquire blocks until n tokens are available, the wait budget is exceeded,
// or ctx is cancelled. When the wait needed for admission exceeds timeout it
// fails immediately with [ErrRateLimitTimeout] instead of waiting out a lost
// cause. A timeout of zero or less means wait as long as ctx allows.
//
// The reservation protocol guarantees progress: tokens are committed to this
// caller up front, so later arrivals cannot starve it. On cancellation the
// unconsumed reservation is returned to the bucket.
func (rl *RateLimiter) Acquire(ctx context.Context, n int, timeout time.Duration) error {
	if n < 1 {
		n = 1
	}

	now := rl.clock.Now()

	r := rl.lim.ReserveN(now, n)
	if !r.OK() {
		rl.hooks.emitRateLimited(0)
		return fmt.Errorf("%w: %d tokens exceed burst capacity %d", ErrRateLimitTimeout, n, rl.lim.Burst())
	}

	delay := r.DelayFrom(now)
	if delay == 0 {
		return nil
	}

	if timeout > 0 && delay > timeout {
		r.CancelAt(now)
		rl.hooks.emitRateLimited(delay)

		return fmt.Errorf("%w: admission needs %v, budget is %v", ErrRateLimitTimeout, delay, timeout)
	}

	timer := rl.clock.NewTimer(delay)
	select {
	case <-timer.C():
		return nil
	case <-ctx.Done():
		timer.Stop()
		r.CancelAt(rl.clock.Now())

		return cancelled(ctx.Err())
	}
}

// Tokens returns the number of tokens currently available.
func (rl *RateLimiter) Tokens() float64 { return rl.lim.TokensAt(rl.clock.Now()) }

// Limit returns the steady-state refill rate in tokens per second.
func (rl *RateLimiter) Limit() float64 { return float64(rl.lim.Limit()) }

// Burst returns the bucket capacity.
func (rl *RateLimiter) Burst() int { return rl.lim.Burst() }
