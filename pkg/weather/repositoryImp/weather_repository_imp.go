package repositoryImp

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/weather/repository"
)

type weatherRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.WeatherRepository { return &weatherRepo{db} }

func (r *weatherRepo) Create(ctx context.Context, w *entities.WeatherData) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *weatherRepo) Latest(ctx context.Context, key string) (*entities.WeatherData, error) {
	var w entities.WeatherData
	if err := r.db.WithContext(ctx).Where("location_key = ?", key).Order("timestamp DESC").First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *weatherRepo) Between(ctx context.Context, key string, from, to time.Time) ([]entities.WeatherData, error) {
	out := []entities.WeatherData{}
	err := r.db.WithContext(ctx).
		Where("location_key = ? AND timestamp >= ? AND timestamp <= ?", key, from.UTC(), to.UTC()).
		Order("timestamp ASC").Find(&out).Error
	return out, err
}
