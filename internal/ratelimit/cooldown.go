package ratelimit

import (
	"math"
	"sync"
	"time"
)

// CooldownLimiter enforces a minimum interval between accepted actions per
// client. It keeps the timestamp of the last accepted action for each
// client id in a mutex-guarded map; Prune drops stale entries so the map
// does not grow for the lifetime of the process.
type CooldownLimiter struct {
	mu       sync.Mutex
	last     map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

// NewCooldownLimiter creates a limiter using the wall clock.
func NewCooldownLimiter(cooldown time.Duration) *CooldownLimiter {
	return NewCooldownLimiterWithClock(cooldown, time.Now)
}

// NewCooldownLimiterWithClock creates a limiter with an injected clock,
// for deterministic tests.
func NewCooldownLimiterWithClock(cooldown time.Duration, now func() time.Time) *CooldownLimiter {
	return &CooldownLimiter{
		last:     make(map[string]time.Time),
		cooldown: cooldown,
		now:      now,
	}
}

// TryAcquire reports whether clientID may act now. When allowed, the
// client's timestamp is updated and (true, 0) is returned. When denied,
// the stored timestamp is left untouched (a rejected attempt does not
// reset the cooldown clock) and the seconds until the next allowed
// attempt are returned, rounded up.
func (l *CooldownLimiter) TryAcquire(clientID string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if at, ok := l.last[clientID]; ok {
		elapsed := now.Sub(at)
		if elapsed < l.cooldown {
			retry := int(math.Ceil((l.cooldown - elapsed).Seconds()))
			return false, retry
		}
	}

	l.last[clientID] = now
	return true, 0
}

// Prune removes entries whose cooldown has fully elapsed. Callers run it
// periodically from a background goroutine.
func (l *CooldownLimiter) Prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, at := range l.last {
		if now.Sub(at) >= l.cooldown {
			delete(l.last, id)
		}
	}
}

// StartPruning runs Prune on the given interval until stop is closed.
func (l *CooldownLimiter) StartPruning(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Prune()
		case <-stop:
			return
		}
	}
}
