package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/advice/repository"
)

type adviceRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.AdviceRepository { return &adviceRepo{db} }

func (r *adviceRepo) Create(ctx context.Context, a *entities.Advice) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *adviceRepo) History(ctx context.Context, userID string, limit int) ([]entities.Advice, error) {
	out := []entities.Advice{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

// SetFeedback returns gorm.ErrRecordNotFound when no advice has the id.
func (r *adviceRepo) SetFeedback(ctx context.Context, id, feedback string) error {
	res := r.db.WithContext(ctx).Model(&entities.Advice{}).Where("id = ?", id).Update("feedback", feedback)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
