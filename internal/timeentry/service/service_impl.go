package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/internal/apperror"
	taskdomain "github.com/lumora-hq/lumora/internal/task/domain"
	tenantdomain "github.com/lumora-hq/lumora/internal/tenant/domain"
	"github.com/lumora-hq/lumora/internal/timeentry/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	TaskRepo taskdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	taskRepo taskdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("timeentry.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		taskRepo: p.TaskRepo,
	}
}

// Log inserts the entry and recomputes the task's hours_logged inside one
// transaction. The task row is locked for the duration, so two concurrent
// inserts against the same task serialize and the persisted total equals the
// exact sum of entries after either commit ordering.
func (s *Service) Log(ctx context.Context, tc tenantdomain.TenantContext, req domain.LogTimeRequest) (domain.LogTimeResult, error) {
	if req.Hours <= 0 {
		return domain.LogTimeResult{}, apperror.Validation("hours", "non_positive", "hours must be greater than zero")
	}
	if req.UserID == 0 {
		return domain.LogTimeResult{}, apperror.Validation("user_id", "required", "user is required")
	}

	entryDate := req.EntryDate
	if entryDate.IsZero() {
		entryDate = time.Now().UTC().Truncate(24 * time.Hour)
	}

	entry := domain.TimeEntry{
		ID:        s.genID.Generate(),
		TaskID:    req.TaskID,
		UserID:    req.UserID,
		Hours:     req.Hours,
		EntryDate: entryDate,
		Notes:     req.Notes,
		CreatedAt: time.Now().UTC(),
	}

	var total float64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskID, err := s.lockTask(ctx, tx, tc.TenantID(), req.TaskID)
		if err != nil {
			return err
		}

		if err := s.repo.Insert(ctx, tx, &entry); err != nil {
			return err
		}

		total, err = s.repo.SumHoursForTask(ctx, tx, taskID)
		if err != nil {
			return err
		}

		return tx.Exec(
			`UPDATE tasks SET hours_logged = ?, updated_at = ? WHERE id = ?`,
			total,
			time.Now().UTC(),
			taskID,
		).Error
	})
	if err != nil {
		return domain.LogTimeResult{}, err
	}

	return domain.LogTimeResult{Entry: entry, TaskHoursLogged: total}, nil
}

func (s *Service) ListByTask(ctx context.Context, tc tenantdomain.TenantContext, taskID snowflake.ID) ([]domain.TimeEntry, error) {
	task, err := s.taskRepo.FindByID(ctx, s.db, tc.TenantID(), taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperror.NotFound("task not found")
	}
	return s.repo.ListByTask(ctx, s.db, taskID)
}

// lockTask loads the task scoped to the tenant and takes a row lock on
// dialects that support it. sqlite serializes writers on its own.
func (s *Service) lockTask(ctx context.Context, tx *gorm.DB, tenantID, taskID snowflake.ID) (snowflake.ID, error) {
	query := `SELECT t.id FROM tasks t
		 JOIN projects p ON p.id = t.project_id
		 WHERE p.tenant_id = ? AND t.id = ?`
	if tx.Dialector.Name() != "sqlite" {
		query += ` FOR UPDATE`
	}

	var id snowflake.ID
	if err := tx.WithContext(ctx).Raw(query, tenantID, taskID).Scan(&id).Error; err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, apperror.NotFound("task not found")
	}
	return id, nil
}
