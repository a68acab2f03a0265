package clock_test

import (
	"sync"
	"testing"
	"time"

	"finquest/internal/platform/clock"
)

type manualInterval struct {
	mu      sync.Mutex
	fn      func()
	stopped bool
}

func (iv *manualInterval) Stop() {
	iv.mu.Lock()
	iv.stopped = true
	iv.mu.Unlock()
}

func (iv *manualInterval) fire() {
	iv.mu.Lock()
	stopped := iv.stopped
	fn := iv.fn
	iv.mu.Unlock()
	if !stopped {
		fn()
	}
}

type manualScheduler struct {
	mu        sync.Mutex
	intervals []*manualInterval
}

func (s *manualScheduler) Every(_ time.Duration, fn func()) clock.Stopper {
	iv := &manualInterval{fn: fn}
	s.mu.Lock()
	s.intervals = append(s.intervals, iv)
	s.mu.Unlock()
	return iv
}

func (s *manualScheduler) interval(i int) *manualInterval {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intervals[i]
}

func TestCountdownTicksDownAndExpiresOnce(t *testing.T) {
	t.Parallel()
	sched := &manualScheduler{}
	var ticks []int
	expires := 0
	cd := clock.NewCountdown(sched, 3,
		func(remaining int) { ticks = append(ticks, remaining) },
		func() { expires++ },
	)

	iv := sched.interval(0)
	for n := 0; n < 5; n++ {
		iv.fire()
	}
	if len(ticks) != 2 || ticks[0] != 2 || ticks[1] != 1 {
		t.Fatalf("expected ticks [2 1], got %v", ticks)
	}
	if expires != 1 {
		t.Fatalf("expected exactly one expiry, got %d", expires)
	}
	if cd.Remaining() != 0 {
		t.Fatalf("expected zero remaining, got %d", cd.Remaining())
	}
	iv.mu.Lock()
	stopped := iv.stopped
	iv.mu.Unlock()
	if !stopped {
		t.Fatalf("countdown must stop its interval after expiry")
	}
}

func TestCountdownZeroSecondsExpiresImmediately(t *testing.T) {
	t.Parallel()
	sched := &manualScheduler{}
	expires := 0
	clock.NewCountdown(sched, 0, nil, func() { expires++ })
	if expires != 1 {
		t.Fatalf("expected immediate expiry, got %d", expires)
	}
	if len(sched.intervals) != 0 {
		t.Fatalf("zero-second countdown must not schedule ticks")
	}
}

func TestCountdownStopSuppressesExpiry(t *testing.T) {
	t.Parallel()
	sched := &manualScheduler{}
	expires := 0
	cd := clock.NewCountdown(sched, 2, nil, func() { expires++ })
	cd.Stop()
	cd.Stop()

	for n := 0; n < 4; n++ {
		sched.interval(0).fire()
	}
	if expires != 0 {
		t.Fatalf("stopped countdown must not expire, got %d", expires)
	}
}
