package in

import (
	"context"

	"finquest/internal/modules/hearts/dto"
)

// Tracker keeps the local hearts view synced against the server for the
// lifetime of an authenticated session.
type Tracker interface {
	Start(ctx context.Context)
	Stop()
	Fetch(ctx context.Context) error
	LoseHeart(ctx context.Context)
	State() dto.StateOutput
	Subscribe(fn func(dto.StateOutput))
}
