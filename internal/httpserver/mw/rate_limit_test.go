package mw

import (
	"testing"
	"time"
)

func TestLimiterBurstThenReject(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 3, RefillPerIPPerMin: 60})
	now := time.Now()

	for i := 0; i < 3; i++ {
		if ok, _ := l.allow("1.2.3.4", now); !ok {
			t.Fatalf("request %d within burst was rejected", i+1)
		}
	}

	ok, retry := l.allow("1.2.3.4", now)
	if ok {
		t.Fatal("request beyond burst was allowed")
	}
	if retry < 1 {
		t.Errorf("retryAfter = %d, want >= 1", retry)
	}
}

func TestLimiterRefills(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 60}) // one token per second
	now := time.Now()

	if ok, _ := l.allow("k", now); !ok {
		t.Fatal("first request rejected")
	}
	if ok, _ := l.allow("k", now); ok {
		t.Fatal("second immediate request allowed")
	}
	if ok, _ := l.allow("k", now.Add(time.Second)); !ok {
		t.Fatal("request after refill window rejected")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1})
	now := time.Now()

	if ok, _ := l.allow("a", now); !ok {
		t.Fatal("first key rejected")
	}
	if ok, _ := l.allow("b", now); !ok {
		t.Fatal("second key should have its own bucket")
	}
}

func TestLimiterSweepsIdleBuckets(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1, SweepInterval: time.Minute, IdleTTL: time.Minute})
	now := time.Now()

	l.allow("old", now)
	l.allow("new", now.Add(2*time.Minute)) // triggers a sweep; "old" is idle past TTL

	l.mu.Lock()
	_, oldKept := l.buckets["old"]
	_, newKept := l.buckets["new"]
	l.mu.Unlock()

	if oldKept {
		t.Error("idle bucket survived the sweep")
	}
	if !newKept {
		t.Error("active bucket was swept")
	}
}
