package steadyhttp

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"
)

// Jitter selects how a computed backoff delay is randomised before use.
type Jitter int

const (
	// JitterNone returns the computed delay unchanged.
	JitterNone Jitter = iota
	// JitterFull returns a uniform random delay in [0, computed].
	JitterFull
	// JitterEqual returns computed/2 plus a uniform random delay in
	// [0, computed/2].
	JitterEqual
)

// String returns the configuration name of the jitter mode.
func (j Jitter) String() string {
	switch j {
	case JitterFull:
		return "full"
	case JitterEqual:
		return "equal"
	default:
		return "none"
	}
}

// ParseJitter maps a configuration string to a [Jitter] mode.
func ParseJitter(s string) (Jitter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return JitterNone, nil
	case "full":
		return JitterFull, nil
	case "equal":
		return JitterEqual, nil
	default:
		return JitterNone, fmt.Errorf("unknown jitter mode: %q", s)
	}
}

// BackoffStrategy determines the delay between retry attempts.
//
// Pattern: Strategy — swap backoff algorithms without changing retry logic.
type BackoffStrategy interface {
	// Delay returns the duration to wait before the given retry attempt
	// (0-indexed: attempt 0 is the delay before the first retry).
	Delay(attempt int) time.Duration
}

// BackoffFunc adapts an ordinary function into a [BackoffStrategy].
// This allows callers to provide ad-hoc backoff logic without defining a type.
type BackoffFunc func(attempt int) time.Duration

// Delay calls the underlying function.
func (f BackoffFunc) Delay(attempt int) time.Duration { return f(attempt) }

// RandSource supplies the randomness consumed by jittered backoff. It is
// satisfied by [math/rand/v2.Rand], so tests can inject a seeded source for
// deterministic delays.
type RandSource interface {
	// Int64N returns a uniform random value in [0, n).
	Int64N(n int64) int64
}

// globalRand forwards to the shared math/rand/v2 generator.
type globalRand struct{}

func (globalRand) Int64N(n int64) int64 { return rand.Int64N(n) }

// exponentialBackoff computes min(max, base * 2^attempt), then jitters.
type exponentialBackoff struct {
	base   time.Duration
	max    time.Duration
	jitter Jitter
	src    RandSource
}

// ExponentialBackoff returns a [BackoffStrategy] whose delay doubles with
// each attempt, capped at max, with the given jitter mode applied to the
// capped value. A non-positive base falls back to [DefaultBaseDelay]; a max
// below base is raised to base.
func ExponentialBackoff(base, max time.Duration, jitter Jitter) BackoffStrategy {
	return newExponentialBackoff(base, max, jitter, globalRand{})
}

func newExponentialBackoff(base, max time.Duration, jitter Jitter, src RandSource) BackoffStrategy {
	if base <= 0 {
		base = DefaultBaseDelay
	}
	if max < base {
		max = base
	}
	if src == nil {
		src = globalRand{}
	}

	return &exponentialBackoff{base: base, max: max, jitter: jitter, src: src}
}

func (b *exponentialBackoff) Delay(attempt int) time.Duration {
	d := time.Duration(float64(b.base) * math.Pow(2, float64(attempt)))
	// Overflow shows up as a non-positive or out-of-range value; clamp to max.
	if d <= 0 || d > b.max {
		d = b.max
	}

	switch b.jitter {
	case JitterFull:
		d = b.uniform(d)
	case JitterEqual:
		half := d / 2
		d = half + b.uniform(half)
	}

	return d
}

// uniform returns a random duration in [0, max].
func (b *exponentialBackoff) uniform(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}

	return time.Duration(b.src.Int64N(int64(max) + 1))
}
