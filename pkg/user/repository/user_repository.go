package repository

import (
	"context"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
)

type UserRepository interface {
	Create(ctx context.Context, u *entities.User) error
	Save(ctx context.Context, u *entities.User) error
	FindByAuthUID(ctx context.Context, uid string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
}

type FarmRepository interface {
	Create(ctx context.Context, f *entities.Farm) error
	FindByID(ctx context.Context, id, userID string) (*entities.Farm, error)
	ListByUser(ctx context.Context, userID string) ([]entities.Farm, error)
}
