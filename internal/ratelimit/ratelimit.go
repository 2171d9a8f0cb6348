// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ratelimit spaces out calls to each online provider.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum gap between two calls to one provider.
const DefaultInterval = time.Second

// Limiter enforces a minimum interval between calls per source. Sources are
// independent: waiting on one never delays another.
type Limiter struct {
	interval time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New returns a limiter with the given interval. A non-positive interval
// disables limiting.
func New(interval time.Duration) *Limiter {
	return &Limiter{interval: interval, limiters: make(map[string]*rate.Limiter)}
}

// Wait blocks until at least the interval has elapsed since the previous
// call for source, then reserves the slot. It returns ctx.Err() if the
// context ends first.
func (l *Limiter) Wait(ctx context.Context, source string) error {
	if l == nil || l.interval <= 0 {
		return ctx.Err()
	}
	return l.limiter(source).Wait(ctx)
}

func (l *Limiter) limiter(source string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[source]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.interval), 1)
		l.limiters[source] = lim
	}
	return lim
}
