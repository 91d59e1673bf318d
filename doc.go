// Package steadyhttp provides a resilient outbound HTTP client layer.
//
// The central type is Client, which wraps an injected Transport with a
// shared token-bucket rate limiter and a retry executor using exponential
// backoff with jitter. Admission is charged per attempt, so retries of one
// logical request cannot exceed the configured aggregate rate. Retried
// operations must be idempotent; the client does not enforce this.
package steadyhttp
