package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, task *Task) error
	// FindByID scopes the lookup through the project join so a task can only
	// be reached from its own tenant.
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Task, error)
	ListByProject(ctx context.Context, db *gorm.DB, projectID snowflake.ID) ([]Task, error)
	Update(ctx context.Context, db *gorm.DB, task *Task) error
	DeleteCascade(ctx context.Context, db *gorm.DB, taskID snowflake.ID) error
}
