package clock

import (
	"sync"
	"time"
)

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Stopper halts a scheduled interval. Stop must be idempotent.
type Stopper interface {
	Stop()
}

// Scheduler produces repeating intervals. The system implementation runs fn
// on its own goroutine; tests inject a manual scheduler and fire ticks by hand.
type Scheduler interface {
	Every(d time.Duration, fn func()) Stopper
}

type SystemScheduler struct{}

func (SystemScheduler) Every(d time.Duration, fn func()) Stopper {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	return &intervalStopper{ticker: ticker, done: done}
}

type intervalStopper struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (s *intervalStopper) Stop() {
	s.once.Do(func() {
		s.ticker.Stop()
		close(s.done)
	})
}
