package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/internal/project/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, project *domain.Project) error {
	return db.WithContext(ctx).Create(project).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Project, error) {
	var project domain.Project
	err := db.WithContext(ctx).
		First(&project, "tenant_id = ? AND id = ?", tenantID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *repo) ListByClient(ctx context.Context, db *gorm.DB, tenantID, clientID snowflake.ID) ([]domain.Project, error) {
	var projects []domain.Project
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Order("created_at").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, project *domain.Project) error {
	return db.WithContext(ctx).Save(project).Error
}

func (r *repo) DeleteCascade(ctx context.Context, db *gorm.DB, projectID snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		statements := []string{
			`DELETE FROM time_entries WHERE task_id IN (
				SELECT id FROM tasks WHERE project_id = ?)`,
			`DELETE FROM tasks WHERE project_id = ?`,
			`DELETE FROM project_assignments WHERE project_id = ?`,
			`DELETE FROM projects WHERE id = ?`,
		}
		for _, stmt := range statements {
			if err := tx.Exec(stmt, projectID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repo) CountTasks(ctx context.Context, db *gorm.DB, projectID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("tasks").
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

func (r *repo) CountTasksByStatus(ctx context.Context, db *gorm.DB, projectID snowflake.ID, status string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("tasks").
		Where("project_id = ? AND status = ?", projectID, status).
		Count(&count).Error
	return count, err
}

func (r *repo) SumTaskHoursLogged(ctx context.Context, db *gorm.DB, projectID snowflake.ID) (float64, error) {
	var total float64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(hours_logged), 0) FROM tasks WHERE project_id = ?`,
		projectID,
	).Scan(&total).Error
	return total, err
}

func (r *repo) InsertAssignment(ctx context.Context, db *gorm.DB, assignment *domain.ProjectAssignment) error {
	return db.WithContext(ctx).Create(assignment).Error
}

func (r *repo) DeleteAssignment(ctx context.Context, db *gorm.DB, projectID, userID snowflake.ID) error {
	return db.WithContext(ctx).
		Exec(`DELETE FROM project_assignments WHERE project_id = ? AND user_id = ?`, projectID, userID).Error
}

func (r *repo) ListAssignedUserIDs(ctx context.Context, db *gorm.DB, projectID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).Raw(
		`SELECT user_id FROM project_assignments WHERE project_id = ? ORDER BY created_at`,
		projectID,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
