package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *TimeEntry) error
	SumHoursForTask(ctx context.Context, db *gorm.DB, taskID snowflake.ID) (float64, error)
	ListByTask(ctx context.Context, db *gorm.DB, taskID snowflake.ID) ([]TimeEntry, error)
}
