package repository

import (
	"context"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
)

type AdviceRepository interface {
	Create(ctx context.Context, a *entities.Advice) error
	// History lists a user's advice newest first.
	History(ctx context.Context, userID string, limit int) ([]entities.Advice, error)
	SetFeedback(ctx context.Context, id, feedback string) error
}
