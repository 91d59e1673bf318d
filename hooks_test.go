package steadyhttp

import (
	"errors"
	"testing"
	"time"
)

func TestHooksNilSafe(t *testing.T) {
	// A nil Hooks pointer and a zero-value Hooks must both be safe to emit on.
	var nilHooks *Hooks
	nilHooks.emitRetry(1, errors.New("x"), time.Second)
	nilHooks.emitRateLimited(time.Second)
	nilHooks.emitRequest(RequestSpec{})
	nilHooks.emitResponse(RequestSpec{}, &Response{})

	empty := &Hooks{}
	empty.emitRetry(1, errors.New("x"), time.Second)
	empty.emitRateLimited(time.Second)
	empty.emitRequest(RequestSpec{})
	empty.emitResponse(RequestSpec{}, &Response{})
}

func TestHooksEmit(t *testing.T) {
	var (
		retries   int
		rejected  int
		requests  int
		responses int
	)

	h := &Hooks{
		OnRetry:       func(int, error, time.Duration) { retries++ },
		OnRateLimited: func(time.Duration) { rejected++ },
		OnRequest:     func(RequestSpec) { requests++ },
		OnResponse:    func(RequestSpec, *Response) { responses++ },
	}

	h.emitRetry(1, errors.New("x"), time.Second)
	h.emitRateLimited(0)
	h.emitRequest(RequestSpec{})
	h.emitResponse(RequestSpec{}, &Response{})

	if retries != 1 || rejected != 1 || requests != 1 || responses != 1 {
		t.Fatalf("emit counts = %d/%d/%d/%d, want 1 each", retries, rejected, requests, responses)
	}
}
