package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"finquest/internal/modules/hearts/domain"
	"finquest/internal/modules/hearts/dto"
	heartsin "finquest/internal/modules/hearts/port/in"
	heartsout "finquest/internal/modules/hearts/port/out"
	"finquest/internal/platform/clock"
)

// ProfileMirror receives the authoritative hearts value for shared display.
type ProfileMirror interface {
	SetHearts(hearts, maxHearts int)
}

// Tracker owns the hearts lifecycle: wholesale overwrite on fetch, a local
// per-second countdown that is purely a display cache, and a periodic resync
// interval that corrects for drift and missed expiries. Hearts never go down
// locally without a confirming server round trip.
type Tracker struct {
	backend     heartsout.Backend
	sched       clock.Scheduler
	mirror      ProfileMirror
	logger      *zap.Logger
	learnerID   string
	resyncEvery time.Duration

	mu          sync.Mutex
	known       bool
	state       domain.State
	countdown   *clock.Countdown
	cdGen       int
	resync      clock.Stopper
	fetching    bool
	subscribers []func(dto.StateOutput)
}

func NewTracker(
	backend heartsout.Backend,
	sched clock.Scheduler,
	mirror ProfileMirror,
	logger *zap.Logger,
	learnerID string,
	resyncEvery time.Duration,
) heartsin.Tracker {
	return &Tracker{
		backend:     backend,
		sched:       sched,
		mirror:      mirror,
		logger:      logger,
		learnerID:   learnerID,
		resyncEvery: resyncEvery,
	}
}

func (t *Tracker) Start(ctx context.Context) {
	if err := t.Fetch(ctx); err != nil {
		t.logger.Warn("initial hearts fetch", zap.Error(err))
	}
	t.mu.Lock()
	if t.resync == nil {
		t.resync = t.sched.Every(t.resyncEvery, func() {
			if err := t.Fetch(context.Background()); err != nil {
				t.logger.Warn("hearts resync", zap.Error(err))
			}
		})
	}
	t.mu.Unlock()
}

func (t *Tracker) Stop() {
	t.mu.Lock()
	resync := t.resync
	countdown := t.countdown
	t.resync = nil
	t.countdown = nil
	t.cdGen++
	t.mu.Unlock()
	if resync != nil {
		resync.Stop()
	}
	if countdown != nil {
		countdown.Stop()
	}
}

// Fetch overwrites local state wholesale with the server's answer and
// rebuilds the display countdown around the new wait time. Concurrent calls
// collapse into one round trip.
func (t *Tracker) Fetch(ctx context.Context) error {
	t.mu.Lock()
	if t.fetching {
		t.mu.Unlock()
		return nil
	}
	t.fetching = true
	t.mu.Unlock()

	state, err := t.backend.GetHearts(ctx, t.learnerID)

	t.mu.Lock()
	t.fetching = false
	if err != nil {
		t.mu.Unlock()
		t.logger.Warn("fetch hearts", zap.Error(err))
		return err
	}
	t.known = true
	t.state = state
	old := t.countdown
	t.countdown = nil
	t.cdGen++
	gen := t.cdGen
	seconds := 0
	if state.SecondsUntilNext != nil && *state.SecondsUntilNext > 0 {
		seconds = *state.SecondsUntilNext
	}
	t.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	if seconds > 0 {
		cd := clock.NewCountdown(t.sched, seconds,
			func(remaining int) { t.tick(gen, remaining) },
			func() { t.expire(gen) },
		)
		t.mu.Lock()
		if t.cdGen == gen {
			t.countdown = cd
			t.mu.Unlock()
		} else {
			t.mu.Unlock()
			cd.Stop()
		}
	}

	if t.mirror != nil {
		t.mirror.SetHearts(state.Hearts, state.MaxHearts)
	}
	t.notify()
	return nil
}

// LoseHeart posts the spend intent and re-fetches the authoritative value.
// There is deliberately no optimistic decrement.
func (t *Tracker) LoseHeart(ctx context.Context) {
	if err := t.backend.LoseHeart(ctx, t.learnerID); err != nil {
		t.logger.Warn("lose heart", zap.Error(err))
		return
	}
	if err := t.Fetch(ctx); err != nil {
		t.logger.Warn("refetch after heart loss", zap.Error(err))
	}
}

func (t *Tracker) State() dto.StateOutput {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) Subscribe(fn func(dto.StateOutput)) {
	t.mu.Lock()
	t.subscribers = append(t.subscribers, fn)
	t.mu.Unlock()
}

func (t *Tracker) tick(gen, remaining int) {
	t.mu.Lock()
	if gen != t.cdGen {
		t.mu.Unlock()
		return
	}
	r := remaining
	t.state.SecondsUntilNext = &r
	t.mu.Unlock()
	t.notify()
}

// expire treats a zero countdown as "time to re-ask", never as a local
// regeneration. The countdown has already stopped itself, so even a failed
// fetch cannot loop.
func (t *Tracker) expire(gen int) {
	t.mu.Lock()
	if gen != t.cdGen {
		t.mu.Unlock()
		return
	}
	t.state.SecondsUntilNext = nil
	t.countdown = nil
	t.mu.Unlock()
	t.notify()
	go func() {
		if err := t.Fetch(context.Background()); err != nil {
			t.logger.Warn("refetch after countdown", zap.Error(err))
		}
	}()
}

func (t *Tracker) snapshotLocked() dto.StateOutput {
	return dto.StateOutput{
		Known:            t.known,
		Hearts:           t.state.Hearts,
		MaxHearts:        t.state.MaxHearts,
		SecondsUntilNext: t.state.SecondsUntilNext,
		NextHeartAt:      t.state.NextHeartAt,
		FullHeartsAt:     t.state.FullHeartsAt,
		FetchedAt:        t.state.FetchedAt,
	}
}

func (t *Tracker) notify() {
	t.mu.Lock()
	subs := make([]func(dto.StateOutput), len(t.subscribers))
	copy(subs, t.subscribers)
	snapshot := t.snapshotLocked()
	t.mu.Unlock()
	for _, fn := range subs {
		fn(snapshot)
	}
}
