package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/internal/task/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, task *domain.Task) error {
	return db.WithContext(ctx).Create(task).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Task, error) {
	var task domain.Task
	err := db.WithContext(ctx).Raw(
		`SELECT t.* FROM tasks t
		 JOIN projects p ON p.id = t.project_id
		 WHERE p.tenant_id = ? AND t.id = ?`,
		tenantID,
		id,
	).Scan(&task).Error
	if err != nil {
		return nil, err
	}
	if task.ID == 0 {
		return nil, nil
	}
	return &task, nil
}

func (r *repo) ListByProject(ctx context.Context, db *gorm.DB, projectID snowflake.ID) ([]domain.Task, error) {
	var tasks []domain.Task
	err := db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, task *domain.Task) error {
	return db.WithContext(ctx).Save(task).Error
}

func (r *repo) DeleteCascade(ctx context.Context, db *gorm.DB, taskID snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM time_entries WHERE task_id = ?`, taskID).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM tasks WHERE id = ?`, taskID).Error
	})
}
