package github

import (
	"context"
	"time"
)

// Latency returns the round-trip time of a GET against the API root. A
// probe runs only when the client is not rate-limited and the last probe is
// older than the latency interval; otherwise the cached value is returned.
// Concurrent callers may both probe, and the last write wins.
func (c *Client) Latency(ctx context.Context) (time.Duration, error) {
	if !c.IsRateLimited() {
		now := c.clock()
		last := c.lastProbe.Load()
		if last == nil || now.Sub(*last) > c.latencyInterval {
			c.lastProbe.Store(&now)

			start := c.clock()
			if _, err := c.GetAPIRoot(ctx); err != nil {
				return time.Duration(c.latency.Load()), err
			}
			elapsed := c.clock().Sub(start)
			c.latency.Store(int64(elapsed))
			c.metrics.RecordLatency(elapsed)
		}
	}
	return time.Duration(c.latency.Load()), nil
}

// LastLatency returns the cached probe result without probing.
func (c *Client) LastLatency() time.Duration {
	return time.Duration(c.latency.Load())
}
