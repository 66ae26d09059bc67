// Package ratelimit holds the in-process limiter used when Redis is disabled.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/storefront/ecommerce-api/internal/core/ports"
)

// maxKeys bounds the limiter map; it is reset wholesale when exceeded.
const maxKeys = 10000

// MemoryLimiter is a per-key token bucket that refills max tokens per window.
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	max      int
	window   time.Duration
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(max) / window.Seconds()),
		max:      max,
		window:   window,
	}
}

func (l *MemoryLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxKeys {
			l.limiters = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(l.limit, l.max)
		l.limiters[key] = lim
	}
	return lim
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (ports.RateDecision, error) {
	lim := l.get(key)
	now := time.Now()
	allowed := lim.AllowN(now, 1)

	tokens := lim.TokensAt(now)
	var reset time.Duration
	if missing := float64(l.max) - tokens; missing > 0 && l.limit > 0 {
		reset = time.Duration(missing / float64(l.limit) * float64(time.Second))
	}
	return ports.RateDecision{
		Allowed:   allowed,
		Limit:     l.max,
		Remaining: int(math.Max(0, math.Floor(tokens))),
		Reset:     reset,
	}, nil
}
