package out

import (
	"context"

	"finquest/internal/modules/session/domain"
)

// Backend is the remote learning service. StartSession and SubmitVoiceAnswer
// are authoritative; LogInteraction is best-effort telemetry the engine never
// blocks on.
type Backend interface {
	StartSession(ctx context.Context, learnerID string, length int) (string, []domain.Item, error)
	LogInteraction(ctx context.Context, interaction domain.Interaction) error
	SubmitVoiceAnswer(ctx context.Context, submission domain.VoiceSubmission) (domain.VoiceResult, error)
}

// HeartSpender fires the lose-a-heart intent after an incorrect answer.
// Implementations swallow their own failures.
type HeartSpender interface {
	LoseHeart(ctx context.Context)
}

// CuePlayer plays reward/penalty cues. Playback is an external concern; the
// engine only names the cue.
type CuePlayer interface {
	Play(cue domain.Cue)
}

// ResultStore keeps completed lesson results for the local history view.
type ResultStore interface {
	Save(ctx context.Context, result domain.Result) error
	List(ctx context.Context, limit int) ([]domain.Result, error)
}
