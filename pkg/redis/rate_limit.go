package redis

import (
	"context"
	"time"
)

const rateLimitPrefix = "rate_limit"

// RateLimiter counts requests per scope in fixed windows.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (Decision, error)
}

// Decision is the outcome of one counted request.
type Decision struct {
	Allowed bool
	Count   int64
	// ResetIn is how long until the window rolls over; zero when unknown.
	ResetIn time.Duration
}

func RateLimitKey(scope string) string {
	return key(rateLimitPrefix, scope)
}

// FixedWindowAllow increments the scope counter, starting the window on the
// first hit. A counter left without a TTL is given one on the next call.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (Decision, error) {
	if err := c.ready(); err != nil {
		return Decision{}, err
	}
	k := RateLimitKey(scope)

	count, err := c.cmd.Incr(ctx, k).Result()
	if err != nil {
		return Decision{}, err
	}
	decision := Decision{Allowed: count <= limit, Count: count, ResetIn: window}
	if count == 1 {
		return decision, c.cmd.Expire(ctx, k, window).Err()
	}

	ttl, err := c.cmd.TTL(ctx, k).Result()
	if err != nil {
		return decision, err
	}
	switch {
	case ttl > 0:
		decision.ResetIn = ttl
	case ttl == -1:
		// -1 means the key exists without an expiry.
		err = c.cmd.Expire(ctx, k, window).Err()
	}
	return decision, err
}
