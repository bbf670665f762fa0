package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/user/repository"
)

type userRepo struct{ db *gorm.DB }

func NewUsers(db *gorm.DB) repository.UserRepository { return &userRepo{db} }

func (r *userRepo) Create(ctx context.Context, u *entities.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) Save(ctx context.Context, u *entities.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *userRepo) FindByAuthUID(ctx context.Context, uid string) (*entities.User, error) {
	var u entities.User
	if err := r.db.WithContext(ctx).Where("auth_uid = ?", uid).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	var u entities.User
	if err := r.db.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

type farmRepo struct{ db *gorm.DB }

func NewFarms(db *gorm.DB) repository.FarmRepository { return &farmRepo{db} }

func (r *farmRepo) Create(ctx context.Context, f *entities.Farm) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *farmRepo) FindByID(ctx context.Context, id, userID string) (*entities.Farm, error) {
	var f entities.Farm
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *farmRepo) ListByUser(ctx context.Context, userID string) ([]entities.Farm, error) {
	fs := []entities.Farm{}
	return fs, r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&fs).Error
}
