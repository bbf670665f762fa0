package repositoryImp

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/affliction"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/affliction/repository"
)

type repo[T affliction.Record] struct{ db *gorm.DB }

func New[T affliction.Record](db *gorm.DB) repository.Repository[T] { return &repo[T]{db} }

func (r *repo[T]) Create(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repo[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var rec T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repo[T]) FindByName(ctx context.Context, name string) (*T, error) {
	var rec T
	if err := r.db.WithContext(ctx).Where("lower(name) = lower(?)", strings.TrimSpace(name)).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repo[T]) All(ctx context.Context) ([]T, error) {
	out := []T{}
	return out, r.db.WithContext(ctx).Order("name").Find(&out).Error
}

func (r *repo[T]) Search(ctx context.Context, q string, limit int) ([]T, error) {
	like := "%" + escapeLike(strings.ToLower(strings.TrimSpace(q))) + "%"
	out := []T{}
	err := r.db.WithContext(ctx).
		Where(`lower(name) LIKE ? ESCAPE '\' OR lower(common_name) LIKE ? ESCAPE '\' OR lower(description) LIKE ? ESCAPE '\'`, like, like, like).
		Order("name").Limit(limit).Find(&out).Error
	return out, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
