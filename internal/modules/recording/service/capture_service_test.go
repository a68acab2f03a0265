package service_test

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"finquest/internal/modules/recording/domain"
	recordingout "finquest/internal/modules/recording/port/out"
	"finquest/internal/modules/recording/service"
	"finquest/internal/platform/clock"
	apperrors "finquest/internal/platform/errors"
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

func (s *manualScheduler) last() *manualInterval {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intervals[len(s.intervals)-1]
}

type fakeStream struct {
	mu      sync.Mutex
	clip    domain.Clip
	stopErr error
	paused  bool
	stopped bool
	aborted bool
}

func (f *fakeStream) Pause(context.Context) error {
	f.mu.Lock()
	f.paused = true
	f.mu.Unlock()
	return nil
}

func (f *fakeStream) Resume(context.Context) error {
	f.mu.Lock()
	f.paused = false
	f.mu.Unlock()
	return nil
}

func (f *fakeStream) Stop(context.Context) (domain.Clip, error) {
	f.mu.Lock()
	f.stopped = true
	clip, err := f.clip, f.stopErr
	f.mu.Unlock()
	return clip, err
}

func (f *fakeStream) Abort(context.Context) error {
	f.mu.Lock()
	f.aborted = true
	f.mu.Unlock()
	return nil
}

type fakeDevice struct {
	mu         sync.Mutex
	stream     *fakeStream
	acquireErr error
	acquires   int
}

func (f *fakeDevice) Acquire(context.Context) (recordingout.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acquires++
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	return f.stream, nil
}

func (f *fakeDevice) Check(context.Context) (string, error) { return "fake mic", nil }

func TestRecordPauseResumeStopProducesClip(t *testing.T) {
	t.Parallel()
	sched := &manualScheduler{}
	stream := &fakeStream{clip: domain.Clip{Data: []byte("wav-bytes"), MIMEType: "audio/wav", Millis: 2500}}
	device := &fakeDevice{stream: stream}
	rec := service.NewCaptureService(device, sched, zap.NewNop(), t.TempDir())

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if rec.Status().State != domain.StateRecording {
		t.Fatalf("expected recording, got %s", rec.Status().State)
	}

	sched.last().fire()
	sched.last().fire()
	if rec.Status().ElapsedSeconds != 2 {
		t.Fatalf("expected 2s elapsed, got %d", rec.Status().ElapsedSeconds)
	}

	if err := rec.Pause(context.Background()); err != nil {
		t.Fatalf("pause: %v", err)
	}
	sched.last().fire()
	if rec.Status().ElapsedSeconds != 2 {
		t.Fatalf("paused ticks must not advance elapsed, got %d", rec.Status().ElapsedSeconds)
	}
	if err := rec.Resume(context.Background()); err != nil {
		t.Fatalf("resume: %v", err)
	}

	if err := rec.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	status := rec.Status()
	if status.State != domain.StateRecorded || !status.HasClip || status.ClipMillis != 2500 {
		t.Fatalf("unexpected status after stop: %+v", status)
	}
	if status.PreviewPath == "" {
		t.Fatalf("expected preview file path")
	}
	if _, err := os.Stat(status.PreviewPath); err != nil {
		t.Fatalf("preview file must exist: %v", err)
	}

	encoded, err := rec.Base64()
	if err != nil {
		t.Fatalf("base64: %v", err)
	}
	if encoded != base64.StdEncoding.EncodeToString([]byte("wav-bytes")) {
		t.Fatalf("unexpected encoding: %s", encoded)
	}
}

func TestDeniedAcquisitionEntersFailedThenRetryWorks(t *testing.T) {
	t.Parallel()
	sched := &manualScheduler{}
	stream := &fakeStream{clip: domain.Clip{Data: []byte("x")}}
	device := &fakeDevice{stream: stream, acquireErr: errors.New("permission denied")}
	rec := service.NewCaptureService(device, sched, zap.NewNop(), t.TempDir())

	if err := rec.Start(context.Background()); err == nil {
		t.Fatalf("expected acquisition failure")
	}
	status := rec.Status()
	if status.State != domain.StateFailed || status.Message == "" {
		t.Fatalf("expected failed state with user message, got %+v", status)
	}

	// Stop outside an active session is a no-op, not a second failure.
	if err := rec.Stop(context.Background()); err != nil {
		t.Fatalf("stop in failed state must be a no-op: %v", err)
	}
	if rec.Status().State != domain.StateFailed {
		t.Fatalf("no-op stop must not change state")
	}

	device.mu.Lock()
	device.acquireErr = nil
	device.mu.Unlock()
	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if rec.Status().State != domain.StateRecording {
		t.Fatalf("expected fresh recording after retry, got %s", rec.Status().State)
	}
}

func TestResetReleasesResourcesFromAnyState(t *testing.T) {
	t.Parallel()
	sched := &manualScheduler{}
	stream := &fakeStream{clip: domain.Clip{Data: []byte("x"), Millis: 100}}
	device := &fakeDevice{stream: stream}
	rec := service.NewCaptureService(device, sched, zap.NewNop(), t.TempDir())

	// Reset while recording aborts the stream.
	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	rec.Reset(context.Background())
	stream.mu.Lock()
	aborted := stream.aborted
	stream.mu.Unlock()
	if !aborted {
		t.Fatalf("reset while recording must abort the stream")
	}
	if rec.Status().State != domain.StateIdle {
		t.Fatalf("expected idle after reset, got %s", rec.Status().State)
	}

	// Reset after a finalized take removes the preview file and the clip.
	stream2 := &fakeStream{clip: domain.Clip{Data: []byte("take"), Millis: 900}}
	device.mu.Lock()
	device.stream = stream2
	device.mu.Unlock()
	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("second start: %v", err)
	}
	if err := rec.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	preview := rec.Status().PreviewPath
	rec.Reset(context.Background())
	if _, err := os.Stat(preview); !os.IsNotExist(err) {
		t.Fatalf("preview file must be removed on reset, stat err=%v", err)
	}
	if _, err := rec.Base64(); !errors.Is(err, apperrors.ErrNoRecording) {
		t.Fatalf("expected no recording after reset, got %v", err)
	}

	// Reset from idle is safe.
	rec.Reset(context.Background())
	if rec.Status().State != domain.StateIdle {
		t.Fatalf("reset from idle must stay idle")
	}
}

func TestStartWhileRecordingIsRejected(t *testing.T) {
	t.Parallel()
	sched := &manualScheduler{}
	device := &fakeDevice{stream: &fakeStream{}}
	rec := service.NewCaptureService(device, sched, zap.NewNop(), t.TempDir())

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := rec.Start(context.Background()); !errors.Is(err, apperrors.ErrDeviceHeld) {
		t.Fatalf("expected device held, got %v", err)
	}
	device.mu.Lock()
	acquires := device.acquires
	device.mu.Unlock()
	if acquires != 1 {
		t.Fatalf("second start must not touch the device, got %d acquires", acquires)
	}
}

func TestPauseOutsideRecordingFails(t *testing.T) {
	t.Parallel()
	sched := &manualScheduler{}
	device := &fakeDevice{stream: &fakeStream{}}
	rec := service.NewCaptureService(device, sched, zap.NewNop(), t.TempDir())

	if err := rec.Pause(context.Background()); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for pause while idle, got %v", err)
	}
	if err := rec.Resume(context.Background()); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for resume while idle, got %v", err)
	}
	if _, err := rec.Base64(); !errors.Is(err, apperrors.ErrNoRecording) {
		t.Fatalf("expected no recording, got %v", err)
	}
}

func TestFailedFinalizeKeepsDeviceReleased(t *testing.T) {
	t.Parallel()
	sched := &manualScheduler{}
	stream := &fakeStream{stopErr: errors.New("device unplugged")}
	device := &fakeDevice{stream: stream}
	rec := service.NewCaptureService(device, sched, zap.NewNop(), t.TempDir())

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := rec.Stop(context.Background()); err == nil {
		t.Fatalf("expected finalize failure")
	}
	if rec.Status().State != domain.StateFailed {
		t.Fatalf("expected failed state, got %s", rec.Status().State)
	}
	if _, err := rec.Base64(); !errors.Is(err, apperrors.ErrNoRecording) {
		t.Fatalf("failed take must not produce a clip, got %v", err)
	}
	// A fresh start recovers.
	stream.mu.Lock()
	stream.stopErr = nil
	stream.mu.Unlock()
	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("restart after failed finalize: %v", err)
	}
	if rec.Status().State != domain.StateRecording {
		t.Fatalf("expected recording after restart, got %s", rec.Status().State)
	}
}
