package ratelimit

import (
	"testing"
	"time"
)

// fakeClock lets tests advance time manually.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestLimiter(max int, window time.Duration) (*ChannelLimiter, *fakeClock) {
	clock := &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewChannelLimiter(max, window)
	limiter.now = clock.Now
	return limiter, clock
}

func TestAdmitWithinLimit(t *testing.T) {
	limiter, clock := newTestLimiter(10, time.Minute)

	for i := 0; i < 10; i++ {
		if !limiter.Admit("chan-1") {
			t.Fatalf("admission %d denied, want allowed", i+1)
		}
		clock.Advance(time.Second)
	}
}

func TestDeniesEleventhWithinWindow(t *testing.T) {
	limiter, clock := newTestLimiter(10, time.Minute)

	// 10 admissions spread over 10 seconds, all inside the window
	for i := 0; i < 10; i++ {
		if !limiter.Admit("chan-1") {
			t.Fatalf("setup admission %d denied", i+1)
		}
		clock.Advance(time.Second)
	}

	if limiter.Admit("chan-1") {
		t.Error("11th admission inside window allowed, want denied")
	}
}

func TestAdmitsAfterWindowSlides(t *testing.T) {
	limiter, clock := newTestLimiter(10, time.Minute)

	for i := 0; i < 10; i++ {
		if !limiter.Admit("chan-1") {
			t.Fatalf("setup admission %d denied", i+1)
		}
	}
	if limiter.Admit("chan-1") {
		t.Fatal("11th admission allowed, want denied")
	}

	// Just past the window from the earliest admission
	clock.Advance(time.Minute + time.Second)

	if !limiter.Admit("chan-1") {
		t.Error("admission after window slid past earliest entry denied, want allowed")
	}
}

func TestDenialsLeaveNoTrace(t *testing.T) {
	limiter, clock := newTestLimiter(2, time.Minute)

	limiter.Admit("chan-1")
	limiter.Admit("chan-1")

	// Hammer denied requests; they must not extend the window
	for i := 0; i < 20; i++ {
		if limiter.Admit("chan-1") {
			t.Fatal("admission over limit allowed")
		}
		clock.Advance(time.Second)
	}

	// 20s elapsed; advance the rest of the window from the admissions
	clock.Advance(41 * time.Second)

	if !limiter.Admit("chan-1") {
		t.Error("admission denied after original entries expired; denials must not count")
	}
}

func TestChannelsAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(1, time.Minute)

	if !limiter.Admit("chan-1") {
		t.Fatal("first admission on chan-1 denied")
	}
	if limiter.Admit("chan-1") {
		t.Fatal("second admission on chan-1 allowed")
	}
	if !limiter.Admit("chan-2") {
		t.Error("admission on chan-2 denied; channels must not share windows")
	}
}

func TestLimiterInstancesAreIndependent(t *testing.T) {
	a, _ := newTestLimiter(1, time.Minute)
	b, _ := newTestLimiter(1, time.Minute)

	if !a.Admit("chan-1") {
		t.Fatal("first limiter denied")
	}
	if !b.Admit("chan-1") {
		t.Error("second limiter denied; instances must not share state")
	}
}
