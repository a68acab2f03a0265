package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"finquest/internal/modules/session/domain"
	"finquest/internal/modules/session/dto"
	sessionin "finquest/internal/modules/session/port/in"
	sessionout "finquest/internal/modules/session/port/out"
	"finquest/internal/platform/id"
)

// ProfileXP is the slice of the shared learner state the engine needs.
type ProfileXP interface {
	AddXP(amount int) int
}

// Interactor wires the lesson state machine to its collaborators. Local
// feedback (score, XP, cue, heart loss) is applied ahead of server
// confirmation for choice answers, because correctness is already known
// locally; the voice path inverts this and waits for the server.
type Interactor struct {
	svc       lessonMachine
	backend   sessionout.Backend
	hearts    sessionout.HeartSpender
	cues      sessionout.CuePlayer
	results   sessionout.ResultStore
	profile   ProfileXP
	ids       id.Generator
	logger    *zap.Logger
	learnerID string
}

// lessonMachine is the narrow dependency on the lesson state machine;
// defined here so tests can substitute it without touching the real one.
type lessonMachine interface {
	Start(sessionID string, items []domain.Item) (int, error)
	Generation() int
	Answer(correct bool) error
	AnswerAt(generation, index int, correct bool) error
	CreditXP(generation, amount int)
	Advance() (dto.ProgressOutput, error)
	Current() (dto.CurrentOutput, error)
	Progress() (dto.ProgressOutput, error)
	End() (domain.Result, error)
	Reset()
}

func NewInteractor(
	machine lessonMachine,
	backend sessionout.Backend,
	hearts sessionout.HeartSpender,
	cues sessionout.CuePlayer,
	results sessionout.ResultStore,
	profile ProfileXP,
	ids id.Generator,
	logger *zap.Logger,
	learnerID string,
) sessionin.Engine {
	return &Interactor{
		svc:       machine,
		backend:   backend,
		hearts:    hearts,
		cues:      cues,
		results:   results,
		profile:   profile,
		ids:       ids,
		logger:    logger,
		learnerID: learnerID,
	}
}

// StartLesson requests an item batch and fully replaces any prior lesson.
// In-flight calls from the superseded lesson keep running but their
// completions are rejected by the generation guard.
func (i *Interactor) StartLesson(ctx context.Context, input dto.StartInput) (dto.StartOutput, error) {
	sessionID, items, err := i.backend.StartSession(ctx, i.learnerID, input.Length)
	if err != nil {
		return dto.StartOutput{}, fmt.Errorf("start session: %w", err)
	}
	if _, err := i.svc.Start(sessionID, items); err != nil {
		return dto.StartOutput{}, err
	}
	progress, err := i.svc.Progress()
	if err != nil {
		return dto.StartOutput{}, err
	}
	return dto.StartOutput{
		SessionID: sessionID,
		Items:     len(items),
		StartedAt: progress.StartedAt,
		First:     items[0],
	}, nil
}

func (i *Interactor) Current() (dto.CurrentOutput, error) {
	return i.svc.Current()
}

func (i *Interactor) AnswerQuestion(correct bool) error {
	return i.svc.Answer(correct)
}

func (i *Interactor) NextQuestion() (dto.ProgressOutput, error) {
	return i.svc.Advance()
}

// SubmitAnswer grades a choice answer locally, applies the optimistic side
// effects, then logs the interaction without blocking. Log failures never
// roll anything back.
func (i *Interactor) SubmitAnswer(ctx context.Context, input dto.SubmitAnswerInput) (dto.SubmitAnswerOutput, error) {
	current, err := i.svc.Current()
	if err != nil {
		return dto.SubmitAnswerOutput{}, err
	}
	if err := i.svc.Answer(input.IsCorrect); err != nil {
		return dto.SubmitAnswerOutput{}, err
	}
	generation := i.svc.Generation()

	earned := 0
	if input.IsCorrect {
		earned = domain.XPPerCorrect
		i.profile.AddXP(earned)
		i.svc.CreditXP(generation, earned)
		i.cues.Play(domain.CueCorrect)
	} else {
		i.cues.Play(domain.CueIncorrect)
		go i.hearts.LoseHeart(context.Background())
	}

	progress, err := i.svc.Progress()
	if err != nil {
		return dto.SubmitAnswerOutput{}, err
	}

	interaction := domain.Interaction{
		AttemptID:      i.ids.New(),
		LearnerID:      i.learnerID,
		ItemID:         current.Item.ID,
		KCID:           current.Item.KCID,
		SessionID:      progress.SessionID,
		IsCorrect:      input.IsCorrect,
		ResponseValue:  input.ResponseValue,
		ResponseTimeMs: input.ResponseTimeMs,
		InputMode:      domain.InputChoice,
	}
	go func() {
		if err := i.backend.LogInteraction(context.Background(), interaction); err != nil {
			i.logger.Warn("log interaction",
				zap.String("item_id", interaction.ItemID),
				zap.String("session_id", interaction.SessionID),
				zap.Error(err))
		}
	}()

	return dto.SubmitAnswerOutput{Score: progress.Score, XPEarned: earned}, nil
}

// SubmitVoiceAnswer blocks on the collaborator because correctness is not
// known locally. On failure nothing is mutated and the caller gets a nil
// result; on success the authoritative verdict and XP are applied, tagged to
// the lesson generation captured before the call.
func (i *Interactor) SubmitVoiceAnswer(ctx context.Context, input dto.VoiceAnswerInput) (*dto.VoiceAnswerOutput, error) {
	current, err := i.svc.Current()
	if err != nil {
		return nil, err
	}
	progress, err := i.svc.Progress()
	if err != nil {
		return nil, err
	}
	generation := i.svc.Generation()

	result, err := i.backend.SubmitVoiceAnswer(ctx, domain.VoiceSubmission{
		LearnerID:   i.learnerID,
		ItemID:      current.Item.ID,
		SessionID:   progress.SessionID,
		AudioBase64: input.AudioBase64,
	})
	if err != nil {
		i.logger.Warn("submit voice answer",
			zap.String("item_id", current.Item.ID),
			zap.Error(err))
		return nil, fmt.Errorf("submit voice answer: %w", err)
	}

	if err := i.svc.AnswerAt(generation, current.Index, result.IsCorrect); err != nil {
		// The lesson was reset or replaced while the call was in flight;
		// the authoritative verdict targets an identity that no longer
		// exists, so it is dropped.
		i.logger.Info("voice result for superseded lesson",
			zap.String("item_id", current.Item.ID))
		return nil, err
	}
	if result.XPEarned > 0 {
		i.profile.AddXP(result.XPEarned)
		i.svc.CreditXP(generation, result.XPEarned)
	}
	if result.IsCorrect {
		i.cues.Play(domain.CueCorrect)
	} else {
		i.cues.Play(domain.CueIncorrect)
		go i.hearts.LoseHeart(context.Background())
	}

	after, err := i.svc.Progress()
	if err != nil {
		return nil, err
	}
	return &dto.VoiceAnswerOutput{
		IsCorrect: result.IsCorrect,
		XPEarned:  result.XPEarned,
		Score:     after.Score,
	}, nil
}

func (i *Interactor) Progress() (dto.ProgressOutput, error) {
	return i.svc.Progress()
}

// EndLesson returns the final snapshot, records it in local history, and
// resets the engine. A history write failure does not lose the snapshot.
func (i *Interactor) EndLesson(ctx context.Context) (dto.ResultOutput, error) {
	result, err := i.svc.End()
	if err != nil {
		return dto.ResultOutput{}, err
	}
	i.cues.Play(domain.CueFinished)
	if i.results != nil {
		if err := i.results.Save(ctx, result); err != nil {
			i.logger.Warn("save lesson result", zap.Error(err))
		}
	}
	return resultOutput(result), nil
}

func (i *Interactor) ResetLesson() {
	i.svc.Reset()
}

func (i *Interactor) History(ctx context.Context, limit int) ([]dto.ResultOutput, error) {
	if i.results == nil {
		return nil, nil
	}
	results, err := i.results.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list lesson history: %w", err)
	}
	out := make([]dto.ResultOutput, 0, len(results))
	for _, r := range results {
		out = append(out, resultOutput(r))
	}
	return out, nil
}

func resultOutput(r domain.Result) dto.ResultOutput {
	return dto.ResultOutput{
		SessionID:  r.SessionID,
		Correct:    r.Correct,
		Incorrect:  r.Incorrect,
		XPEarned:   r.XPEarned,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}
