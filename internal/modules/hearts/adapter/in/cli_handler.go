package in

import (
	"context"

	"finquest/internal/modules/hearts/dto"
	heartsin "finquest/internal/modules/hearts/port/in"
)

type CLIHandler struct {
	tracker heartsin.Tracker
}

func NewCLIHandler(tracker heartsin.Tracker) CLIHandler {
	return CLIHandler{tracker: tracker}
}

// Show performs a one-shot fetch and returns the resulting state.
func (h CLIHandler) Show(ctx context.Context) (dto.StateOutput, error) {
	if err := h.tracker.Fetch(ctx); err != nil {
		return dto.StateOutput{}, err
	}
	return h.tracker.State(), nil
}
