package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/internal/apperror"
	"github.com/lumora-hq/lumora/internal/clock"
	projectdomain "github.com/lumora-hq/lumora/internal/project/domain"
	"github.com/lumora-hq/lumora/internal/task/domain"
	tenantdomain "github.com/lumora-hq/lumora/internal/tenant/domain"
	userdomain "github.com/lumora-hq/lumora/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	ProjectRepo projectdomain.Repository
	UserRepo    userdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	projectRepo projectdomain.Repository
	userRepo    userdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("task.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		projectRepo: p.ProjectRepo,
		userRepo:    p.UserRepo,
	}
}

func (s *Service) Create(ctx context.Context, tc tenantdomain.TenantContext, req domain.CreateTaskRequest) (domain.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Task{}, apperror.Validation("title", "required", "title is required")
	}

	priority := req.Priority
	if priority == 0 {
		priority = projectdomain.PriorityMedium
	}
	if !projectdomain.ValidPriority(priority) {
		return domain.Task{}, apperror.Validation("priority", "invalid_priority", "priority must be between 1 and 4")
	}

	project, err := s.projectRepo.FindByID(ctx, s.db, tc.TenantID(), req.ProjectID)
	if err != nil {
		return domain.Task{}, err
	}
	if project == nil {
		return domain.Task{}, apperror.NotFound("project not found")
	}

	if err := s.validateAssignee(ctx, req.AssignedTo); err != nil {
		return domain.Task{}, err
	}

	now := time.Now().UTC()
	task := domain.Task{
		ID:             s.genID.Generate(),
		ProjectID:      project.ID,
		Title:          title,
		Description:    strings.TrimSpace(req.Description),
		Status:         domain.TaskStatusTodo,
		Priority:       priority,
		HoursEstimated: req.HoursEstimated,
		DueDate:        req.DueDate,
		AssignedTo:     req.AssignedTo,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (s *Service) GetByID(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID) (domain.TaskView, error) {
	task, err := s.repo.FindByID(ctx, s.db, tc.TenantID(), id)
	if err != nil {
		return domain.TaskView{}, err
	}
	if task == nil {
		return domain.TaskView{}, apperror.NotFound("task not found")
	}
	return domain.TaskView{Task: *task, IsOverdue: task.IsOverdue(s.clock.Now())}, nil
}

func (s *Service) ListByProject(ctx context.Context, tc tenantdomain.TenantContext, projectID snowflake.ID) ([]domain.TaskView, error) {
	project, err := s.projectRepo.FindByID(ctx, s.db, tc.TenantID(), projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NotFound("project not found")
	}

	tasks, err := s.repo.ListByProject(ctx, s.db, project.ID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	views := make([]domain.TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, domain.TaskView{Task: task, IsOverdue: task.IsOverdue(now)})
	}
	return views, nil
}

// UpdateStatus applies the completion side effects: entering completed stamps
// CompletedAt, leaving completed clears it, every other transition leaves it
// untouched.
func (s *Service) UpdateStatus(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID, status domain.TaskStatus) (domain.Task, error) {
	if !domain.ValidTaskStatus(status) {
		return domain.Task{}, apperror.Validation("status", "invalid_status", "unknown task status")
	}

	task, err := s.repo.FindByID(ctx, s.db, tc.TenantID(), id)
	if err != nil {
		return domain.Task{}, err
	}
	if task == nil {
		return domain.Task{}, apperror.NotFound("task not found")
	}

	now := s.clock.Now()
	switch {
	case status == domain.TaskStatusCompleted && task.Status != domain.TaskStatusCompleted:
		task.CompletedAt = &now
	case status != domain.TaskStatusCompleted && task.Status == domain.TaskStatusCompleted:
		task.CompletedAt = nil
	}
	task.Status = status
	task.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, task); err != nil {
		return domain.Task{}, err
	}
	return *task, nil
}

func (s *Service) Assign(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID, userID *snowflake.ID) (domain.Task, error) {
	task, err := s.repo.FindByID(ctx, s.db, tc.TenantID(), id)
	if err != nil {
		return domain.Task{}, err
	}
	if task == nil {
		return domain.Task{}, apperror.NotFound("task not found")
	}

	if err := s.validateAssignee(ctx, userID); err != nil {
		return domain.Task{}, err
	}

	task.AssignedTo = userID
	task.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, task); err != nil {
		return domain.Task{}, err
	}
	return *task, nil
}

func (s *Service) Delete(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID) error {
	task, err := s.repo.FindByID(ctx, s.db, tc.TenantID(), id)
	if err != nil {
		return err
	}
	if task == nil {
		return apperror.NotFound("task not found")
	}
	return s.repo.DeleteCascade(ctx, s.db, id)
}

func (s *Service) validateAssignee(ctx context.Context, userID *snowflake.ID) error {
	if userID == nil {
		return nil
	}
	user, err := s.userRepo.FindByID(ctx, s.db, *userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.Reference("assigned user does not exist")
	}
	return nil
}
