package out

import (
	"context"
	"fmt"

	"finquest/internal/modules/session/domain"
	sessionout "finquest/internal/modules/session/port/out"
	"finquest/internal/platform/httpapi"
)

type HTTPBackend struct {
	client *httpapi.Client
}

func NewHTTPBackend(client *httpapi.Client) sessionout.Backend {
	return &HTTPBackend{client: client}
}

type startSessionRequest struct {
	LearnerID string `json:"learnerId"`
	Length    int    `json:"length"`
}

type itemPayload struct {
	ID           string   `json:"id"`
	KCID         string   `json:"kcId"`
	Kind         string   `json:"kind"`
	Prompt       string   `json:"prompt"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correctIndex"`
}

type startSessionResponse struct {
	SessionID string        `json:"sessionId"`
	Items     []itemPayload `json:"items"`
}

func (b *HTTPBackend) StartSession(ctx context.Context, learnerID string, length int) (string, []domain.Item, error) {
	var resp startSessionResponse
	req := startSessionRequest{LearnerID: learnerID, Length: length}
	if err := b.client.PostJSON(ctx, "/v1/sessions", req, &resp); err != nil {
		return "", nil, fmt.Errorf("start session: %w", err)
	}
	items := make([]domain.Item, 0, len(resp.Items))
	for _, it := range resp.Items {
		kind := domain.ItemKind(it.Kind)
		if kind != domain.ItemVoice {
			kind = domain.ItemChoice
		}
		items = append(items, domain.Item{
			ID:           it.ID,
			KCID:         it.KCID,
			Kind:         kind,
			Prompt:       it.Prompt,
			Choices:      it.Choices,
			CorrectIndex: it.CorrectIndex,
		})
	}
	return resp.SessionID, items, nil
}

type interactionRequest struct {
	AttemptID      string `json:"attemptId"`
	LearnerID      string `json:"learnerId"`
	ItemID         string `json:"itemId"`
	KCID           string `json:"kcId"`
	SessionID      string `json:"sessionId"`
	IsCorrect      bool   `json:"isCorrect"`
	ResponseValue  string `json:"responseValue"`
	ResponseTimeMs int    `json:"responseTimeMs"`
	InputMode      string `json:"inputMode"`
}

func (b *HTTPBackend) LogInteraction(ctx context.Context, interaction domain.Interaction) error {
	req := interactionRequest{
		AttemptID:      interaction.AttemptID,
		LearnerID:      interaction.LearnerID,
		ItemID:         interaction.ItemID,
		KCID:           interaction.KCID,
		SessionID:      interaction.SessionID,
		IsCorrect:      interaction.IsCorrect,
		ResponseValue:  interaction.ResponseValue,
		ResponseTimeMs: interaction.ResponseTimeMs,
		InputMode:      string(interaction.InputMode),
	}
	if err := b.client.PostJSON(ctx, "/v1/interactions", req, nil); err != nil {
		return fmt.Errorf("log interaction: %w", err)
	}
	return nil
}

type voiceAnswerRequest struct {
	LearnerID   string `json:"learnerId"`
	ItemID      string `json:"itemId"`
	SessionID   string `json:"sessionId"`
	AudioBase64 string `json:"audioBase64"`
}

type voiceAnswerResponse struct {
	IsCorrect bool `json:"isCorrect"`
	XPEarned  int  `json:"xpEarned"`
}

func (b *HTTPBackend) SubmitVoiceAnswer(ctx context.Context, submission domain.VoiceSubmission) (domain.VoiceResult, error) {
	var resp voiceAnswerResponse
	req := voiceAnswerRequest{
		LearnerID:   submission.LearnerID,
		ItemID:      submission.ItemID,
		SessionID:   submission.SessionID,
		AudioBase64: submission.AudioBase64,
	}
	if err := b.client.PostJSON(ctx, "/v1/answers/voice", req, &resp); err != nil {
		return domain.VoiceResult{}, fmt.Errorf("submit voice answer: %w", err)
	}
	return domain.VoiceResult{IsCorrect: resp.IsCorrect, XPEarned: resp.XPEarned}, nil
}
