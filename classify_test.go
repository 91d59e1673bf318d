package steadyhttp

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
)

func TestDefaultClassifierStatusCodes(t *testing.T) {
	cases := []struct {
		code int
		want Class
	}{
		{http.StatusTooManyRequests, ClassRetryable},
		{http.StatusInternalServerError, ClassRetryable},
		{http.StatusBadGateway, ClassRetryable},
		{http.StatusServiceUnavailable, ClassRetryable},
		{http.StatusGatewayTimeout, ClassRetryable},
		{http.StatusBadRequest, ClassFatal},
		{http.StatusUnauthorized, ClassFatal},
		{http.StatusForbidden, ClassFatal},
		{http.StatusNotFound, ClassFatal},
		{http.StatusConflict, ClassFatal},
	}

	for _, tc := range cases {
		err := &StatusError{StatusCode: tc.code}
		if got := DefaultClassifier(err); got != tc.want {
			t.Fatalf("DefaultClassifier(status %d) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestDefaultClassifierWrappedStatusError(t *testing.T) {
	err := fmt.Errorf("call service: %w", &StatusError{StatusCode: 503})
	if got := DefaultClassifier(err); got != ClassRetryable {
		t.Fatalf("DefaultClassifier(wrapped 503) = %v, want ClassRetryable", got)
	}
}

func TestDefaultClassifierNetworkErrors(t *testing.T) {
	dnsErr := &net.DNSError{Err: "timeout", IsTimeout: true}
	if got := DefaultClassifier(dnsErr); got != ClassRetryable {
		t.Fatalf("DefaultClassifier(net.Error) = %v, want ClassRetryable", got)
	}

	opErr := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	if got := DefaultClassifier(opErr); got != ClassRetryable {
		t.Fatalf("DefaultClassifier(*net.OpError) = %v, want ClassRetryable", got)
	}

	if got := DefaultClassifier(io.ErrUnexpectedEOF); got != ClassRetryable {
		t.Fatalf("DefaultClassifier(io.ErrUnexpectedEOF) = %v, want ClassRetryable", got)
	}
}

func TestDefaultClassifierUnknownErrorsAreFatal(t *testing.T) {
	if got := DefaultClassifier(errors.New("something odd")); got != ClassFatal {
		t.Fatalf("DefaultClassifier(unknown) = %v, want ClassFatal", got)
	}
}

func TestDefaultClassifierExplicitMarkersWin(t *testing.T) {
	// A retryable status explicitly marked fatal must not be retried.
	marked := Fatal(&StatusError{StatusCode: 503})
	if got := DefaultClassifier(marked); got != ClassFatal {
		t.Fatalf("DefaultClassifier(Fatal(503)) = %v, want ClassFatal", got)
	}

	// An unknown error explicitly marked retryable must be retried.
	if got := DefaultClassifier(Retryable(errors.New("flaky"))); got != ClassRetryable {
		t.Fatalf("DefaultClassifier(Retryable(unknown)) = %v, want ClassRetryable", got)
	}
}

func TestErrorMarkers(t *testing.T) {
	if Retryable(nil) != nil || Fatal(nil) != nil {
		t.Fatal("nil wrapping should return nil")
	}

	base := errors.New("boom")

	re := Retryable(base)
	if !IsRetryable(re) || IsFatal(re) {
		t.Fatal("Retryable marking not detected")
	}
	if !errors.Is(re, base) {
		t.Fatal("Retryable lost the wrapped error")
	}

	fe := Fatal(base)
	if !IsFatal(fe) || IsRetryable(fe) {
		t.Fatal("Fatal marking not detected")
	}
	if !errors.Is(fe, base) {
		t.Fatal("Fatal lost the wrapped error")
	}
}

func TestIsCancelled(t *testing.T) {
	err := cancelled(nil)
	if !IsCancelled(err) {
		t.Fatal("cancelled(nil) not detected by IsCancelled")
	}

	if IsCancelled(errors.New("other")) {
		t.Fatal("IsCancelled matched an unrelated error")
	}
}
