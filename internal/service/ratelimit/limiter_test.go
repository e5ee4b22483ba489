package ratelimit

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestLimiterBurstPerKey(t *testing.T) {
	l := New(0.001, 2)
	if !l.Allow("a") || !l.Allow("a") {
		t.Fatalf("burst of 2 should pass")
	}
	if l.Allow("a") {
		t.Fatalf("third call should be throttled")
	}
	if !l.Allow("b") {
		t.Fatalf("keys must not share a bucket")
	}
}

func TestLimiterEvictsIdleKeys(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(1, 2, WithIdleTTL(time.Minute), WithClock(clk.now))

	l.Allow("a")
	clk.advance(30 * time.Second)
	l.Allow("b")
	if l.Len() != 2 {
		t.Fatalf("len = %d, want 2", l.Len())
	}

	clk.advance(45 * time.Second)
	l.Allow("c")
	if l.Len() != 2 {
		t.Fatalf("len = %d, want 2 after evicting a", l.Len())
	}

	clk.advance(2 * time.Minute)
	l.Allow("d")
	if l.Len() != 1 {
		t.Fatalf("len = %d, want 1", l.Len())
	}
}

func TestLimiterKeepsThrottledBuckets(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	// a full refill takes 200s, longer than the idle TTL
	l := New(0.01, 2, WithIdleTTL(time.Minute), WithClock(clk.now))

	l.Allow("a")
	l.Allow("a")
	clk.advance(90 * time.Second)
	if l.Allow("a") {
		t.Fatalf("eviction must not reset a throttled bucket")
	}

	clk.advance(201 * time.Second)
	l.Allow("b")
	if l.Len() != 1 {
		t.Fatalf("len = %d, want 1", l.Len())
	}
}
