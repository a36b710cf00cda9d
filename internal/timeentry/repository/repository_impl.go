package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/internal/timeentry/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.TimeEntry) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) SumHoursForTask(ctx context.Context, db *gorm.DB, taskID snowflake.ID) (float64, error) {
	var total float64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(hours), 0) FROM time_entries WHERE task_id = ?`,
		taskID,
	).Scan(&total).Error
	return total, err
}

func (r *repo) ListByTask(ctx context.Context, db *gorm.DB, taskID snowflake.ID) ([]domain.TimeEntry, error) {
	var entries []domain.TimeEntry
	err := db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("entry_date, created_at").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
