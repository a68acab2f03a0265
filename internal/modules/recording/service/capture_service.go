package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"finquest/internal/modules/recording/domain"
	"finquest/internal/modules/recording/dto"
	recordingin "finquest/internal/modules/recording/port/in"
	recordingout "finquest/internal/modules/recording/port/out"
	"finquest/internal/platform/clock"
	apperrors "finquest/internal/platform/errors"
)

// CaptureService runs the recording state machine. The device stream and the
// preview file are scoped resources: every transition out of the state that
// holds them releases them first, and Close releases unconditionally.
type CaptureService struct {
	device     recordingout.Device
	sched      clock.Scheduler
	logger     *zap.Logger
	previewDir string

	mu          sync.Mutex
	state       domain.State
	elapsed     int
	clip        *domain.Clip
	previewPath string
	message     string
	stream      recordingout.Stream
	tickStop    clock.Stopper
	subscribers []func(dto.StatusOutput)
}

func NewCaptureService(device recordingout.Device, sched clock.Scheduler, logger *zap.Logger, previewDir string) recordingin.Recorder {
	return &CaptureService{
		device:     device,
		sched:      sched,
		logger:     logger,
		previewDir: previewDir,
		state:      domain.StateIdle,
	}
}

// Start acquires the device and begins a fresh recording. A previous Failed
// or Recorded state is cleared first, so retrying re-attempts acquisition
// from scratch.
func (s *CaptureService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state == domain.StateRecording || s.state == domain.StatePaused {
		s.mu.Unlock()
		return apperrors.ErrDeviceHeld
	}
	stream, tickStop, previewPath := s.takeResourcesLocked()
	s.state = domain.StateIdle
	s.message = ""
	s.mu.Unlock()
	s.release(stream, tickStop, previewPath)

	acquired, err := s.device.Acquire(ctx)
	if err != nil {
		s.mu.Lock()
		s.state = domain.StateFailed
		s.message = "Could not access the microphone. Check permissions and try again."
		s.mu.Unlock()
		s.notify()
		return fmt.Errorf("acquire capture device: %w", err)
	}

	s.mu.Lock()
	s.stream = acquired
	s.state = domain.StateRecording
	s.elapsed = 0
	s.tickStop = s.sched.Every(time.Second, s.tick)
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *CaptureService) tick() {
	s.mu.Lock()
	if s.state != domain.StateRecording {
		s.mu.Unlock()
		return
	}
	s.elapsed++
	s.mu.Unlock()
	s.notify()
}

// Pause suspends the elapsed tick without resetting it.
func (s *CaptureService) Pause(ctx context.Context) error {
	s.mu.Lock()
	if s.state != domain.StateRecording {
		s.mu.Unlock()
		return apperrors.ErrInvalidInput
	}
	stream := s.stream
	s.mu.Unlock()
	if err := stream.Pause(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	if s.state == domain.StateRecording {
		s.state = domain.StatePaused
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *CaptureService) Resume(ctx context.Context) error {
	s.mu.Lock()
	if s.state != domain.StatePaused {
		s.mu.Unlock()
		return apperrors.ErrInvalidInput
	}
	stream := s.stream
	s.mu.Unlock()
	if err := stream.Resume(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	if s.state == domain.StatePaused {
		s.state = domain.StateRecording
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// Stop finalizes the clip, releases the device, and derives the ephemeral
// preview file. Outside Recording/Paused it is a no-op.
func (s *CaptureService) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.state != domain.StateRecording && s.state != domain.StatePaused {
		s.mu.Unlock()
		return nil
	}
	stream := s.stream
	tickStop := s.tickStop
	s.stream = nil
	s.tickStop = nil
	s.mu.Unlock()

	if tickStop != nil {
		tickStop.Stop()
	}
	clip, err := stream.Stop(ctx)
	if err != nil {
		s.mu.Lock()
		s.state = domain.StateFailed
		s.message = "Recording could not be finalized. Try again."
		s.mu.Unlock()
		s.notify()
		return fmt.Errorf("finalize recording: %w", err)
	}

	previewPath := s.writePreview(clip)

	s.mu.Lock()
	s.clip = &clip
	s.previewPath = previewPath
	s.state = domain.StateRecorded
	s.mu.Unlock()
	s.notify()
	return nil
}

// Reset returns to Idle from any state, releasing whatever is held.
func (s *CaptureService) Reset(ctx context.Context) {
	s.mu.Lock()
	stream, tickStop, previewPath := s.takeResourcesLocked()
	s.state = domain.StateIdle
	s.message = ""
	s.mu.Unlock()
	s.release(stream, tickStop, previewPath)
	s.notify()
}

// Close is the teardown path: identical to Reset but without notifications.
func (s *CaptureService) Close() {
	s.mu.Lock()
	stream, tickStop, previewPath := s.takeResourcesLocked()
	s.state = domain.StateIdle
	s.mu.Unlock()
	s.release(stream, tickStop, previewPath)
}

// Base64 transcodes the finalized clip for transport. Calling it without a
// finalized recording is a programmer error surfaced as ErrNoRecording.
func (s *CaptureService) Base64() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateRecorded || s.clip == nil {
		return "", apperrors.ErrNoRecording
	}
	return base64.StdEncoding.EncodeToString(s.clip.Data), nil
}

func (s *CaptureService) Status() dto.StatusOutput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *CaptureService) Subscribe(fn func(dto.StatusOutput)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// takeResourcesLocked detaches every held resource so the caller can release
// them outside the lock. Clip and elapsed counters are cleared here too.
func (s *CaptureService) takeResourcesLocked() (recordingout.Stream, clock.Stopper, string) {
	stream := s.stream
	tickStop := s.tickStop
	previewPath := s.previewPath
	s.stream = nil
	s.tickStop = nil
	s.previewPath = ""
	s.clip = nil
	s.elapsed = 0
	return stream, tickStop, previewPath
}

func (s *CaptureService) release(stream recordingout.Stream, tickStop clock.Stopper, previewPath string) {
	if tickStop != nil {
		tickStop.Stop()
	}
	if stream != nil {
		if err := stream.Abort(context.Background()); err != nil {
			s.logger.Warn("abort capture stream", zap.Error(err))
		}
	}
	if previewPath != "" {
		if err := os.Remove(previewPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("remove preview file", zap.String("path", previewPath), zap.Error(err))
		}
	}
}

// writePreview materializes the playback reference. Failure is tolerated:
// the clip itself is still held for submission.
func (s *CaptureService) writePreview(clip domain.Clip) string {
	if s.previewDir == "" {
		return ""
	}
	f, err := os.CreateTemp(s.previewDir, "preview-*.wav")
	if err != nil {
		s.logger.Warn("create preview file", zap.Error(err))
		return ""
	}
	if _, err := f.Write(clip.Data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		s.logger.Warn("write preview file", zap.Error(err))
		return ""
	}
	if err := f.Close(); err != nil {
		s.logger.Warn("close preview file", zap.Error(err))
	}
	return f.Name()
}

func (s *CaptureService) statusLocked() dto.StatusOutput {
	out := dto.StatusOutput{
		State:          s.state,
		ElapsedSeconds: s.elapsed,
		PreviewPath:    s.previewPath,
		Message:        s.message,
	}
	if s.clip != nil {
		out.HasClip = true
		out.ClipMillis = s.clip.Millis
	}
	return out
}

func (s *CaptureService) notify() {
	s.mu.Lock()
	subs := make([]func(dto.StatusOutput), len(s.subscribers))
	copy(subs, s.subscribers)
	snapshot := s.statusLocked()
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snapshot)
	}
}
