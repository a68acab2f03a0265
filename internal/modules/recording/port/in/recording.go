package in

import (
	"context"

	"finquest/internal/modules/recording/dto"
)

// Recorder is the bounded-clip capture state machine:
// Idle → Recording (↔ Paused) → Recorded → Idle, with Failed holding a
// retryable message after a denied acquisition.
type Recorder interface {
	Start(ctx context.Context) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) error
	Reset(ctx context.Context)
	Base64() (string, error)
	Status() dto.StatusOutput
	Subscribe(fn func(dto.StatusOutput))
	Close()
}
