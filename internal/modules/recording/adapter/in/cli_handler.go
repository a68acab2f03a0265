package in

import "context"

// deviceChecker is the single capture-device probe the CLI needs.
type deviceChecker interface {
	Check(ctx context.Context) (string, error)
}

type CLIHandler struct {
	device deviceChecker
}

func NewCLIHandler(device deviceChecker) CLIHandler {
	return CLIHandler{device: device}
}

// Check verifies the configured capture plugin starts, answers Describe, and
// shuts down cleanly.
func (h CLIHandler) Check(ctx context.Context) (string, error) {
	return h.device.Check(ctx)
}
