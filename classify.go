package steadyhttp

import (
	"errors"
	"io"
	"net"
)

// Class is the retry executor's verdict on a failed attempt.
type Class int

const (
	// ClassRetryable means the failure is transient and another attempt may
	// succeed.
	ClassRetryable Class = iota
	// ClassFatal means the failure is terminal and must propagate on the
	// first occurrence.
	ClassFatal
)

// Classifier decides whether a failure should trigger another attempt.
// Classifiers must be safe for concurrent use.
type Classifier func(err error) Class

// DefaultClassifier is the classification used when none is supplied:
//
//   - errors explicitly marked via [Fatal] or [Retryable] keep their marking
//   - HTTP 429 and 5xx status errors are retryable, other statuses fatal
//   - network-level errors (timeouts, refused or reset connections, truncated
//     reads) are retryable
//   - anything else is fatal
//
// Unknown errors defaulting to fatal keeps non-idempotent calls from being
// replayed on failures the layer cannot reason about.
func DefaultClassifier(err error) Class {
	if IsFatal(err) {
		return ClassFatal
	}

	if IsRetryable(err) {
		return ClassRetryable
	}

	var se *StatusError
	if errors.As(err, &se) {
		if se.Temporary() {
			return ClassRetryable
		}

		return ClassFatal
	}

	var ne net.Error
	if errors.As(err, &ne) {
		return ClassRetryable
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		return ClassRetryable
	}

	return ClassFatal
}
