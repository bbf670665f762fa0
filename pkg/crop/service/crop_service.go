package service

import (
	"context"
	"errors"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
)

var (
	ErrUnknownSeason = errors.New("unknown season")
	ErrDuplicateName = errors.New("a crop with this name already exists")
)

type CropService interface {
	// Recommend filters the catalogue by planting season and, when the
	// location's current temperature is known, by optimal temperature.
	Recommend(ctx context.Context, location, season string) ([]entities.Crop, error)
	Details(ctx context.Context, id string) (*entities.Crop, error)
	List(ctx context.Context, limit, offset int) ([]entities.Crop, int64, error)
	Create(ctx context.Context, c *entities.Crop) (*entities.Crop, error)
	Exists(ctx context.Context, name string) (bool, error)
}
