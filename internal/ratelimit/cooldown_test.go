package ratelimit

import (
	"testing"
	"time"
)

// fakeClock returns a settable clock function for deterministic tests.
func fakeClock(start time.Time) (func() time.Time, func(d time.Duration)) {
	current := start
	now := func() time.Time { return current }
	advance := func(d time.Duration) { current = current.Add(d) }
	return now, advance
}

func TestTryAcquire_FirstCallAllowed(t *testing.T) {
	now, _ := fakeClock(time.Unix(1000, 0))
	l := NewCooldownLimiterWithClock(60*time.Second, now)

	ok, retry := l.TryAcquire("1.2.3.4")
	if !ok || retry != 0 {
		t.Fatalf("first call should be allowed, got (%v, %d)", ok, retry)
	}
}

func TestTryAcquire_BlockedWithinCooldown(t *testing.T) {
	now, advance := fakeClock(time.Unix(1000, 0))
	l := NewCooldownLimiterWithClock(60*time.Second, now)

	l.TryAcquire("1.2.3.4")
	advance(10 * time.Second)

	ok, retry := l.TryAcquire("1.2.3.4")
	if ok {
		t.Fatal("second call within cooldown should be blocked")
	}
	if retry <= 0 || retry > 60 {
		t.Fatalf("retry should be in (0, 60], got %d", retry)
	}
	if retry != 50 {
		t.Fatalf("expected 50s remaining, got %d", retry)
	}
}

func TestTryAcquire_RetryRoundsUp(t *testing.T) {
	now, advance := fakeClock(time.Unix(1000, 0))
	l := NewCooldownLimiterWithClock(60*time.Second, now)

	l.TryAcquire("1.2.3.4")
	advance(59*time.Second + 500*time.Millisecond)

	ok, retry := l.TryAcquire("1.2.3.4")
	if ok {
		t.Fatal("call at 59.5s should still be blocked")
	}
	if retry != 1 {
		t.Fatalf("half a second remaining should round up to 1, got %d", retry)
	}
}

func TestTryAcquire_AllowedAfterCooldown(t *testing.T) {
	now, advance := fakeClock(time.Unix(1000, 0))
	l := NewCooldownLimiterWithClock(60*time.Second, now)

	l.TryAcquire("1.2.3.4")
	advance(60 * time.Second)

	ok, retry := l.TryAcquire("1.2.3.4")
	if !ok || retry != 0 {
		t.Fatalf("call after cooldown should be allowed, got (%v, %d)", ok, retry)
	}
}

func TestTryAcquire_RejectionDoesNotResetClock(t *testing.T) {
	now, advance := fakeClock(time.Unix(1000, 0))
	l := NewCooldownLimiterWithClock(60*time.Second, now)

	l.TryAcquire("1.2.3.4")
	advance(50 * time.Second)
	l.TryAcquire("1.2.3.4") // rejected, must not refresh the timestamp
	advance(10 * time.Second)

	ok, _ := l.TryAcquire("1.2.3.4")
	if !ok {
		t.Fatal("60s after the accepted post the client should be allowed again")
	}
}

func TestTryAcquire_ClientsIndependent(t *testing.T) {
	now, _ := fakeClock(time.Unix(1000, 0))
	l := NewCooldownLimiterWithClock(60*time.Second, now)

	l.TryAcquire("1.2.3.4")

	ok, _ := l.TryAcquire("5.6.7.8")
	if !ok {
		t.Fatal("a different client should not share the cooldown")
	}
}

func TestPrune_DropsExpiredEntries(t *testing.T) {
	now, advance := fakeClock(time.Unix(1000, 0))
	l := NewCooldownLimiterWithClock(60*time.Second, now)

	l.TryAcquire("old")
	advance(60 * time.Second)
	l.TryAcquire("fresh")
	l.Prune()

	if _, ok := l.last["old"]; ok {
		t.Fatal("expired entry should have been pruned")
	}
	if _, ok := l.last["fresh"]; !ok {
		t.Fatal("entry still inside its cooldown must be kept")
	}
}
