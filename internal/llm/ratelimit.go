package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// rateLimitedClient guards the provider quota shared by every user of the
// deployment. Calls beyond the budget fail fast with ErrRateLimited instead of
// queueing, so the caller can tell the user to try again later.
type rateLimitedClient struct {
	base    ChatCompleter
	limiter *rate.Limiter
}

// A generation makes two calls at once, so a smaller bucket could never serve one.
const minBurst = 2

// WithRateLimit wraps client with a token bucket of perMinute calls and the
// given burst, raised to at least minBurst. A non-positive perMinute disables
// limiting.
func WithRateLimit(client ChatCompleter, perMinute, burst int) ChatCompleter {
	if perMinute <= 0 {
		return client
	}
	if burst < minBurst {
		burst = minBurst
	}
	return &rateLimitedClient{
		base:    client,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst),
	}
}

func (c *rateLimitedClient) Complete(ctx context.Context, req ChatRequest) (ContentResponse, error) {
	if !c.limiter.Allow() {
		return ContentResponse{}, fmt.Errorf("%w: local budget exhausted", ErrRateLimited)
	}
	return c.base.Complete(ctx, req)
}
