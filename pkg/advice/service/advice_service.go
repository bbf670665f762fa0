package service

import (
	"context"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
)

// AnonymousUser owns advice asked without an identity.
const AnonymousUser = "anonymous"

// MaxNotes is how many knowledge chunks back one answer.
const MaxNotes = 5

type Question struct {
	Query    string
	UserID   string
	Language string
}

type AdviceService interface {
	Ask(ctx context.Context, q Question) (*entities.Advice, error)
	History(ctx context.Context, userID string, limit int) ([]entities.Advice, error)
	Feedback(ctx context.Context, adviceID, feedback string) error
}
