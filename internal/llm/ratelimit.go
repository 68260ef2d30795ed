package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedClient throttles calls to the wrapped client so a burst of
// per-item prompts cannot exhaust the provider quota.
type RateLimitedClient struct {
	Client
	limiter *rate.Limiter
}

// WithRateLimit wraps c with a limiter allowing rps calls per second and the given burst.
// A non-positive rps returns c unchanged.
func WithRateLimit(c Client, rps float64, burst int) Client {
	if rps <= 0 {
		return c
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedClient{Client: c, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Complete waits for a token, then delegates
func (c *RateLimitedClient) Complete(ctx context.Context, req Request) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return c.Client.Complete(ctx, req)
}
