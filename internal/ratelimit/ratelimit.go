// Package ratelimit provides per-client admission control with a token
// bucket per client identity.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits at most `rate` requests per second per client. Buckets are
// created on first use and live for the process lifetime; idle buckets are
// not evicted.
type Limiter struct {
	rate float64 // tokens per second, also the bucket capacity

	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// New creates a Limiter with the given per-client rate (requests/second).
func New(rate float64) *Limiter {
	return &Limiter{
		rate:    rate,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow reports whether a request from the given client is admitted,
// consuming one token if so. Refill is computed lazily against a monotonic
// clock; a rejected request consumes nothing.
func (l *Limiter) Allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[clientID]
	if !ok {
		b = &bucket{tokens: l.rate, lastRefill: now}
		l.buckets[clientID] = b
	} else {
		elapsed := now.Sub(b.lastRefill).Seconds()
		if elapsed > 0 {
			b.tokens += elapsed * l.rate
			if b.tokens > l.rate {
				b.tokens = l.rate
			}
		}
		b.lastRefill = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
