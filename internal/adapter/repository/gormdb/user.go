package gormdb

import (
	"context"

	"gorm.io/gorm"

	"library-borrowing/internal/domain/user"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var out user.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&out).Error; err != nil {
		return nil, wrap("get user", err)
	}
	return &out, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	var out user.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&out).Error; err != nil {
		return nil, wrap("get user", err)
	}
	return &out, nil
}
