// Package ratelimit throttles login attempts per workspace.
package ratelimit

import (
	"sync"
	"time"

	"github.com/dovepeak/quotemaster/internal/clock"
	"github.com/dovepeak/quotemaster/internal/config"
	"golang.org/x/time/rate"
)

const defaultEntryTTL = 30 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter keeps one token bucket per workspace.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	entryTTL time.Duration
	clock    clock.Clock
}

func NewLoginLimiter(cfg config.Config, clk clock.Clock) *LoginLimiter {
	burst := cfg.LoginRateBurst
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if cfg.LoginRatePerMinute > 0 {
		limit = rate.Limit(cfg.LoginRatePerMinute / 60)
	}
	return &LoginLimiter{
		limiters: make(map[string]*entry),
		limit:    limit,
		burst:    burst,
		entryTTL: defaultEntryTTL,
		clock:    clk,
	}
}

// Allow consumes one attempt for key and reports whether it may proceed.
func (l *LoginLimiter) Allow(key string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Sweep drops buckets idle for longer than the entry TTL and returns how many
// were removed.
func (l *LoginLimiter) Sweep() int {
	cutoff := l.clock.Now().Add(-l.entryTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, e := range l.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked buckets.
func (l *LoginLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
