package clock

import (
	"sync"
	"time"
)

// Countdown ticks once per second from a starting number of seconds down to
// zero, then fires onExpire exactly once and stops itself. It is a display
// primitive: callers that learn a new target replace the countdown instead of
// retargeting a running one, so drift never accumulates.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	stopper   Stopper
	onTick    func(remaining int)
	onExpire  func()
	expired   bool
}

func NewCountdown(sched Scheduler, seconds int, onTick func(remaining int), onExpire func()) *Countdown {
	c := &Countdown{remaining: seconds, onTick: onTick, onExpire: onExpire}
	if seconds <= 0 {
		c.expired = true
		if onExpire != nil {
			onExpire()
		}
		return c
	}
	c.stopper = sched.Every(time.Second, c.tick)
	return c
}

func (c *Countdown) tick() {
	c.mu.Lock()
	if c.expired {
		c.mu.Unlock()
		return
	}
	c.remaining--
	remaining := c.remaining
	expired := remaining <= 0
	if expired {
		c.expired = true
	}
	onTick := c.onTick
	onExpire := c.onExpire
	stopper := c.stopper
	c.mu.Unlock()

	if onTick != nil && remaining > 0 {
		onTick(remaining)
	}
	if expired {
		if stopper != nil {
			stopper.Stop()
		}
		if onExpire != nil {
			onExpire()
		}
	}
}

// Remaining reports the seconds left on the display copy.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining < 0 {
		return 0
	}
	return c.remaining
}

// Stop halts the countdown without firing onExpire. Idempotent.
func (c *Countdown) Stop() {
	c.mu.Lock()
	c.expired = true
	stopper := c.stopper
	c.mu.Unlock()
	if stopper != nil {
		stopper.Stop()
	}
}
