package repositories

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitedClient delays requests so that at most rps requests per second
// reach the upstream, with bursts of up to burst requests.
type RateLimitedClient struct {
	client  HTTPClient
	limiter *rate.Limiter
}

func NewRateLimitedClient(client HTTPClient, rps float64, burst int) *RateLimitedClient {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedClient{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (c *RateLimitedClient) Do(req *http.Request) (*http.Response, error) {
	// Wait for rate limiter permission or context cancellation
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return c.client.Do(req)
}
