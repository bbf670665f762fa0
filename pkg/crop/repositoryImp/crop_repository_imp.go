package repositoryImp

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/crop/repository"
)

type cropRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.CropRepository { return &cropRepo{db} }

func (r *cropRepo) Create(ctx context.Context, c *entities.Crop) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cropRepo) FindByID(ctx context.Context, id string) (*entities.Crop, error) {
	var c entities.Crop
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cropRepo) FindByName(ctx context.Context, name string) (*entities.Crop, error) {
	var c entities.Crop
	if err := r.db.WithContext(ctx).Where("lower(name) = lower(?)", strings.TrimSpace(name)).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cropRepo) All(ctx context.Context) ([]entities.Crop, error) {
	out := []entities.Crop{}
	return out, r.db.WithContext(ctx).Order("name").Find(&out).Error
}

func (r *cropRepo) Page(ctx context.Context, limit, offset int) ([]entities.Crop, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entities.Crop{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []entities.Crop{}
	err := r.db.WithContext(ctx).Order("name").Limit(limit).Offset(offset).Find(&out).Error
	return out, total, err
}
