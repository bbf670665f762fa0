package repository

import (
	"context"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/affliction"
)

type Repository[T affliction.Record] interface {
	Create(ctx context.Context, rec *T) error
	FindByID(ctx context.Context, id string) (*T, error)
	FindByName(ctx context.Context, name string) (*T, error)
	All(ctx context.Context) ([]T, error)
	// Search matches name, common name or description, case-insensitively.
	Search(ctx context.Context, q string, limit int) ([]T, error)
}
