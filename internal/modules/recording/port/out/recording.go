package out

import (
	"context"

	"finquest/internal/modules/recording/domain"
)

// Stream is one exclusive hold on the capture device. Every stream must end
// in exactly one of Stop or Abort; both release the device.
type Stream interface {
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) (domain.Clip, error)
	Abort(ctx context.Context) error
}

// Device acquires the input device. Acquisition failure (permission denied,
// device busy) is returned as an error carrying a user-presentable message.
type Device interface {
	Acquire(ctx context.Context) (Stream, error)
	Check(ctx context.Context) (string, error)
}
