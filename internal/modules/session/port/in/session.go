package in

import (
	"context"

	"finquest/internal/modules/session/dto"
)

// Engine drives a lesson from start to completion. All mutations are
// synchronous with respect to the caller; the only asynchronous boundaries
// are the network calls behind SubmitAnswer (fire-and-forget) and
// SubmitVoiceAnswer (blocking, authoritative).
type Engine interface {
	StartLesson(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	Current() (dto.CurrentOutput, error)
	AnswerQuestion(correct bool) error
	NextQuestion() (dto.ProgressOutput, error)
	SubmitAnswer(ctx context.Context, input dto.SubmitAnswerInput) (dto.SubmitAnswerOutput, error)
	SubmitVoiceAnswer(ctx context.Context, input dto.VoiceAnswerInput) (*dto.VoiceAnswerOutput, error)
	Progress() (dto.ProgressOutput, error)
	EndLesson(ctx context.Context) (dto.ResultOutput, error)
	ResetLesson()
	History(ctx context.Context, limit int) ([]dto.ResultOutput, error)
}
