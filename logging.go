package steadyhttp

import (
	"time"

	"github.com/rs/zerolog"
)

// LogHooks returns [Hooks] that write structured events to l. The core
// itself never logs; attach these (or your own hooks) to observe retries,
// admission rejections, and request traffic.
func LogHooks(l zerolog.Logger) Hooks {
	return Hooks{
		OnRetry: func(attempt int, err error, delay time.Duration) {
			l.Warn().
				Int("attempt", attempt).
				Dur("delay", delay).
				Err(err).
				Msg("retrying request")
		},
		OnRateLimited: func(wait time.Duration) {
			l.Debug().
				Dur("wait", wait).
				Msg("rate limit admission rejected")
		},
		OnRequest: func(spec RequestSpec) {
			l.Debug().
				Str("method", spec.Method).
				Str("url", spec.URL).
				Msg("sending request")
		},
		OnResponse: func(spec RequestSpec, resp *Response) {
			l.Debug().
				Str("method", spec.Method).
				Str("url", spec.URL).
				Int("status", resp.StatusCode).
				Dur("elapsed", resp.Elapsed).
				Msg("request completed")
		},
	}
}
