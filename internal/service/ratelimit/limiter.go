package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// Limiter is a keyed token bucket. Safe for concurrent use.
type Limiter struct {
	mu  sync.Mutex
	m   map[string]*bucket
	now func() time.Time
}

func New() *Limiter { return &Limiter{m: make(map[string]*bucket), now: time.Now} }

// NewWithClock is New with an injected clock.
func NewWithClock(now func() time.Time) *Limiter {
	return &Limiter{m: make(map[string]*bucket), now: now}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}
	// refill
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// PerMinute is a single-key quota of n calls per minute.
type PerMinute struct {
	l   *Limiter
	key string
	n   float64
}

// NewPerMinute returns nil for n <= 0, meaning no quota.
func NewPerMinute(l *Limiter, key string, n int) *PerMinute {
	if n <= 0 || l == nil {
		return nil
	}
	return &PerMinute{l: l, key: key, n: float64(n)}
}

// Allow consumes one call of the quota. A nil quota always allows.
func (p *PerMinute) Allow() bool {
	if p == nil {
		return true
	}
	return p.l.Allow(p.key, p.n, p.n/60)
}
