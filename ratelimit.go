package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type windowEntry struct {
	mu       sync.Mutex
	requests []time.Time
	evicted  bool
}

// rateLimiter is a per-client sliding window limiter. State is per process.
// Clients with no attempts inside the window are swept at most once per window.
type rateLimiter struct {
	max    int
	window time.Duration
	now    func() time.Time
	store  sync.Map // client key -> *windowEntry

	sweepMu   sync.Mutex
	lastSweep time.Time
}

func newRateLimiter(max int, window time.Duration) *rateLimiter {
	return &rateLimiter{max: max, window: window, now: time.Now}
}

// allow records an attempt for key and reports whether it is within the limit.
func (rl *rateLimiter) allow(key string) bool {
	now := rl.now()
	cutoff := now.Add(-rl.window)
	rl.maybeSweep(now, cutoff)

	for {
		v, _ := rl.store.LoadOrStore(key, &windowEntry{})
		entry := v.(*windowEntry)

		entry.mu.Lock()
		if entry.evicted {
			// Swept between load and lock; retry on a fresh entry.
			entry.mu.Unlock()
			continue
		}
		entry.prune(cutoff)
		ok := len(entry.requests) < rl.max
		if ok {
			entry.requests = append(entry.requests, now)
		}
		entry.mu.Unlock()
		return ok
	}
}

// prune drops attempts outside the window. Caller holds e.mu.
func (e *windowEntry) prune(cutoff time.Time) {
	kept := e.requests[:0]
	for _, t := range e.requests {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	e.requests = kept
}

// maybeSweep evicts idle clients if a full window has passed since the last sweep.
func (rl *rateLimiter) maybeSweep(now, cutoff time.Time) {
	rl.sweepMu.Lock()
	if now.Sub(rl.lastSweep) < rl.window {
		rl.sweepMu.Unlock()
		return
	}
	rl.lastSweep = now
	rl.sweepMu.Unlock()

	rl.store.Range(func(k, v any) bool {
		entry := v.(*windowEntry)
		entry.mu.Lock()
		entry.prune(cutoff)
		if len(entry.requests) == 0 {
			entry.evicted = true
			rl.store.Delete(k)
		}
		entry.mu.Unlock()
		return true
	})
}

// middleware rejects clients over the limit with 429. Keyed on gin's
// ClientIP, which only trusts forwarding headers from configured proxies.
func (rl *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			apiError(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
