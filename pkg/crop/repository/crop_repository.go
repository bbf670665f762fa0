package repository

import (
	"context"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
)

type CropRepository interface {
	Create(ctx context.Context, c *entities.Crop) error
	FindByID(ctx context.Context, id string) (*entities.Crop, error)
	FindByName(ctx context.Context, name string) (*entities.Crop, error)
	All(ctx context.Context) ([]entities.Crop, error)
	// Page lists crops by name together with the catalogue size.
	Page(ctx context.Context, limit, offset int) ([]entities.Crop, int64, error)
}
