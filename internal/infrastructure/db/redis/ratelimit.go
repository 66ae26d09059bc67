package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storefront/ecommerce-api/internal/core/ports"
)

const keyPrefix = "rl:"

// incrExpire bumps the counter and starts the window on the first hit.
var incrExpire = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// RateLimiter is a fixed-window limiter shared by every API instance.
// Key format: rl:<scope>:<client>
type RateLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

// NewRateLimiter allows max hits per key in each window.
func NewRateLimiter(client *redis.Client, max int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, max: max, window: window}
}

func (l *RateLimiter) Allow(ctx context.Context, key string) (ports.RateDecision, error) {
	res, err := incrExpire.Run(ctx, l.client, []string{keyPrefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return ports.RateDecision{}, fmt.Errorf("rate limit: %w", err)
	}
	if len(res) != 2 {
		return ports.RateDecision{}, fmt.Errorf("rate limit: unexpected script reply %v", res)
	}
	return decide(res[0], res[1], l.max), nil
}

func decide(count, pttl int64, max int) ports.RateDecision {
	remaining := max - int(count)
	if remaining < 0 {
		remaining = 0
	}
	var reset time.Duration
	if pttl > 0 {
		reset = time.Duration(pttl) * time.Millisecond
	}
	return ports.RateDecision{
		Allowed:   count <= int64(max),
		Limit:     max,
		Remaining: remaining,
		Reset:     reset,
	}
}
