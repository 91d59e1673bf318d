package steadyhttp

import "time"

// Hooks holds optional callback functions for client lifecycle events. All
// fields are nil by default; callers set only the hooks they care about.
// Once constructed, a Hooks value must not be mutated — emit methods read
// the function fields without synchronisation, which is safe as long as the
// struct is read-only after initialisation.
//
// Pattern: Observer — decouples event emission from consumers (logging,
// metrics, alerting) without the core knowing about observers.
type Hooks struct {
	// OnRetry fires before sleeping ahead of a retry. attempt is 1-indexed.
	OnRetry func(attempt int, err error, delay time.Duration)
	// OnRateLimited fires when admission is rejected or times out. wait is
	// the admission delay that was refused, or 0 for a non-blocking reject.
	OnRateLimited func(wait time.Duration)
	// OnRequest fires immediately before the transport is invoked.
	OnRequest func(spec RequestSpec)
	// OnResponse fires after a successful transport call.
	OnResponse func(spec RequestSpec, resp *Response)
}

func (h *Hooks) emitRetry(attempt int, err error, delay time.Duration) {
	if h != nil && h.OnRetry != nil {
		h.OnRetry(attempt, err, delay)
	}
}

func (h *Hooks) emitRateLimited(wait time.Duration) {
	if h != nil && h.OnRateLimited != nil {
		h.OnRateLimited(wait)
	}
}

func (h *Hooks) emitRequest(spec RequestSpec) {
	if h != nil && h.OnRequest != nil {
		h.OnRequest(spec)
	}
}

func (h *Hooks) emitResponse(spec RequestSpec, resp *Response) {
	if h != nil && h.OnResponse != nil {
		h.OnResponse(spec, resp)
	}
}
