package out

import (
	"context"

	"finquest/internal/modules/hearts/domain"
)

type Backend interface {
	GetHearts(ctx context.Context, learnerID string) (domain.State, error)
	LoseHeart(ctx context.Context, learnerID string) error
}
