package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/internal/user/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Create(user).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Save(user).Error
}

func (r *repo) CountOwnedTenants(ctx context.Context, db *gorm.DB, userID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("tenants").
		Where("owner_id = ?", userID).
		Count(&count).Error
	return count, err
}

// DeleteCascade removes the user and every membership that references it.
// Rows owned by tenants the user merely belongs to are left untouched.
func (r *repo) DeleteCascade(ctx context.Context, db *gorm.DB, userID snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM memberships WHERE user_id = ?`, userID).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM users WHERE id = ?`, userID).Error
	})
}
