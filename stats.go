package steadyhttp

// Stats is a snapshot of the client's request counters.
type Stats struct {
	// TotalRequests counts logical Send invocations, not attempts.
	TotalRequests uint64
	// TotalErrors counts Sends that ended in a failure Outcome.
	TotalErrors uint64
	// RateLimited counts attempts rejected by admission timeout.
	RateLimited uint64
}

// StatsProvider exposes counters for external collectors.
type StatsProvider interface {
	Stats() Stats
}

// Compile-time interface check.
var _ StatsProvider = (*Client)(nil)

// Stats returns a snapshot of request statistics.
func (c *Client) Stats() Stats {
	return Stats{
		TotalRequests: c.totalRequests.Load(),
		TotalErrors:   c.totalErrors.Load(),
		RateLimited:   c.rateLimited.Load(),
	}
}
