package repository

import (
	"context"
	"time"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
)

type WeatherRepository interface {
	Create(ctx context.Context, w *entities.WeatherData) error
	// Latest is the newest observation for the location key.
	Latest(ctx context.Context, key string) (*entities.WeatherData, error)
	// Between lists observations with from <= timestamp <= to, oldest first.
	Between(ctx context.Context, key string, from, to time.Time) ([]entities.WeatherData, error)
}
