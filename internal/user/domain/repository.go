package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, user *User) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	Update(ctx context.Context, db *gorm.DB, user *User) error
	CountOwnedTenants(ctx context.Context, db *gorm.DB, userID snowflake.ID) (int64, error)
	DeleteCascade(ctx context.Context, db *gorm.DB, userID snowflake.ID) error
}
