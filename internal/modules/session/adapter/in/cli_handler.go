package in

import (
	"context"

	"finquest/internal/modules/session/dto"
	sessionin "finquest/internal/modules/session/port/in"
)

type CLIHandler struct {
	engine sessionin.Engine
}

func NewCLIHandler(engine sessionin.Engine) CLIHandler {
	return CLIHandler{engine: engine}
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]dto.ResultOutput, error) {
	return h.engine.History(ctx, limit)
}
