package out

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"finquest/internal/modules/hearts/domain"
	heartsout "finquest/internal/modules/hearts/port/out"
	"finquest/internal/platform/httpapi"
)

type HTTPBackend struct {
	client *httpapi.Client
}

func NewHTTPBackend(client *httpapi.Client) heartsout.Backend {
	return &HTTPBackend{client: client}
}

type heartsResponse struct {
	Hearts           int        `json:"hearts"`
	MaxHearts        int        `json:"maxHearts"`
	SecondsUntilNext *int       `json:"secondsUntilNextHeart"`
	NextHeartAt      *time.Time `json:"nextHeartAt"`
	FullHeartsAt     *time.Time `json:"fullHeartsAt"`
}

func (b *HTTPBackend) GetHearts(ctx context.Context, learnerID string) (domain.State, error) {
	var resp heartsResponse
	path := fmt.Sprintf("/v1/learners/%s/hearts", url.PathEscape(learnerID))
	if err := b.client.GetJSON(ctx, path, &resp); err != nil {
		return domain.State{}, fmt.Errorf("get hearts: %w", err)
	}
	return domain.State{
		Hearts:           resp.Hearts,
		MaxHearts:        resp.MaxHearts,
		SecondsUntilNext: resp.SecondsUntilNext,
		NextHeartAt:      resp.NextHeartAt,
		FullHeartsAt:     resp.FullHeartsAt,
		FetchedAt:        time.Now().UTC(),
	}, nil
}

func (b *HTTPBackend) LoseHeart(ctx context.Context, learnerID string) error {
	path := fmt.Sprintf("/v1/learners/%s/hearts/lose", url.PathEscape(learnerID))
	if err := b.client.PostJSON(ctx, path, map[string]any{}, nil); err != nil {
		return fmt.Errorf("lose heart: %w", err)
	}
	return nil
}
