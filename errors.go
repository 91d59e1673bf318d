package steadyhttp

import (
	"errors"
	"fmt"
)

type (
	// retryableError marks a wrapped error as retryable regardless of what
	// the classifier would decide.
	retryableError struct {
		err error
	}

	// fatalError marks a wrapped error as fatal (never retried).
	fatalError struct {
		err error
	}

	// sentinelError is the concrete type backing all sentinel errors.
	sentinelError string
)

// Sentinel errors surfaced by the client.
var (
	// ErrRateLimitTimeout is returned when admission could not be granted
	// within the caller's wait budget.
	ErrRateLimitTimeout error = sentinelError("rate limit admission timed out")
	// ErrRetriesExhausted is returned when all retry attempts have been used.
	// It wraps the error from the final attempt.
	ErrRetriesExhausted error = sentinelError("retries exhausted")
	// ErrCancelled is returned when the caller aborts a pending wait or
	// attempt. It wraps the context error, so errors.Is matches both.
	ErrCancelled error = sentinelError("cancelled")
	// ErrClientClosed is returned by Send after Close has been called.
	ErrClientClosed error = sentinelError("client is closed")
)

func (e sentinelError) Error() string { return string(e) }

func (e *retryableError) Error() string { return "retryable: " + e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func (e *fatalError) Error() string { return "fatal: " + e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// Retryable wraps err to mark it as retryable, overriding the classifier's
// default decision. Returns nil if err is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}

	return &retryableError{err: err}
}

// Fatal wraps err to mark it as fatal, overriding the classifier's default
// decision. Returns nil if err is nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}

	return &fatalError{err: err}
}

// IsRetryable reports whether err was explicitly marked retryable via
// [Retryable]. Returns false for nil and for unmarked errors.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var re *retryableError

	return errors.As(err, &re)
}

// IsFatal reports whether err was explicitly marked fatal via [Fatal].
// Returns false for nil and for unmarked errors.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var fe *fatalError

	return errors.As(err, &fe)
}

// IsCancelled reports whether err represents a caller-initiated abort.
func IsCancelled(err error) bool { return errors.Is(err, ErrCancelled) }

// cancelled wraps a context error so the result matches both ErrCancelled
// and the underlying context sentinel.
func cancelled(err error) error {
	if err == nil {
		return ErrCancelled
	}

	return fmt.Errorf("%w: %w", ErrCancelled, err)
}
