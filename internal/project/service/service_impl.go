package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/internal/apperror"
	clientdomain "github.com/lumora-hq/lumora/internal/client/domain"
	"github.com/lumora-hq/lumora/internal/project/domain"
	tenantdomain "github.com/lumora-hq/lumora/internal/tenant/domain"
	dbpkg "github.com/lumora-hq/lumora/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	ClientRepo clientdomain.Repository
	TenantRepo tenantdomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	clientRepo clientdomain.Repository
	tenantRepo tenantdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("project.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		clientRepo: p.ClientRepo,
		tenantRepo: p.TenantRepo,
	}
}

// Create binds the project to both the context tenant and the client; the
// client lookup is scoped to the tenant, so a client from another tenant can
// never be referenced.
func (s *Service) Create(ctx context.Context, tc tenantdomain.TenantContext, req domain.CreateProjectRequest) (domain.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Project{}, apperror.Validation("name", "required", "name is required")
	}

	status := req.Status
	if status == "" {
		status = domain.ProjectStatusPlanning
	}
	if !domain.ValidProjectStatus(status) {
		return domain.Project{}, apperror.Validation("status", "invalid_status", "unknown project status")
	}

	priority := req.Priority
	if priority == 0 {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return domain.Project{}, apperror.Validation("priority", "invalid_priority", "priority must be between 1 and 4")
	}

	if err := s.validateClient(ctx, tc, req.ClientID); err != nil {
		return domain.Project{}, err
	}

	now := time.Now().UTC()
	project := domain.Project{
		ID:             s.genID.Generate(),
		TenantID:       tc.TenantID(),
		ClientID:       req.ClientID,
		Name:           name,
		Status:         status,
		Priority:       priority,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		EstimatedHours: req.EstimatedHours,
		HourlyRate:     req.HourlyRate,
		Budget:         req.Budget,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &project); err != nil {
		return domain.Project{}, err
	}
	return project, nil
}

func (s *Service) GetByID(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID) (domain.ProjectView, error) {
	project, err := s.repo.FindByID(ctx, s.db, tc.TenantID(), id)
	if err != nil {
		return domain.ProjectView{}, err
	}
	if project == nil {
		return domain.ProjectView{}, apperror.NotFound("project not found")
	}

	view := domain.ProjectView{Project: *project}

	view.TotalTasks, err = s.repo.CountTasks(ctx, s.db, project.ID)
	if err != nil {
		return domain.ProjectView{}, err
	}
	view.CompletedTasks, err = s.repo.CountTasksByStatus(ctx, s.db, project.ID, "completed")
	if err != nil {
		return domain.ProjectView{}, err
	}
	if view.TotalTasks > 0 {
		pct := float64(view.CompletedTasks) / float64(view.TotalTasks) * 100
		view.ProgressPercentage = math.Round(pct*10) / 10
	}
	view.TotalHoursLogged, err = s.repo.SumTaskHoursLogged(ctx, s.db, project.ID)
	if err != nil {
		return domain.ProjectView{}, err
	}

	return view, nil
}

func (s *Service) ListByClient(ctx context.Context, tc tenantdomain.TenantContext, clientID snowflake.ID) ([]domain.Project, error) {
	if err := s.validateClient(ctx, tc, clientID); err != nil {
		return nil, err
	}
	return s.repo.ListByClient(ctx, s.db, tc.TenantID(), clientID)
}

func (s *Service) UpdateStatus(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID, status domain.ProjectStatus) (domain.Project, error) {
	if !domain.ValidProjectStatus(status) {
		return domain.Project{}, apperror.Validation("status", "invalid_status", "unknown project status")
	}

	project, err := s.repo.FindByID(ctx, s.db, tc.TenantID(), id)
	if err != nil {
		return domain.Project{}, err
	}
	if project == nil {
		return domain.Project{}, apperror.NotFound("project not found")
	}

	project.Status = status
	project.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, project); err != nil {
		return domain.Project{}, err
	}
	return *project, nil
}

// ReassignClient re-validates the tenant invariant: the new client must belong
// to the same tenant as the project.
func (s *Service) ReassignClient(ctx context.Context, tc tenantdomain.TenantContext, id, newClientID snowflake.ID) (domain.Project, error) {
	project, err := s.repo.FindByID(ctx, s.db, tc.TenantID(), id)
	if err != nil {
		return domain.Project{}, err
	}
	if project == nil {
		return domain.Project{}, apperror.NotFound("project not found")
	}

	if err := s.validateClient(ctx, tc, newClientID); err != nil {
		return domain.Project{}, err
	}

	project.ClientID = newClientID
	project.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, project); err != nil {
		return domain.Project{}, err
	}
	return *project, nil
}

func (s *Service) AssignMember(ctx context.Context, tc tenantdomain.TenantContext, id, userID snowflake.ID) error {
	project, err := s.repo.FindByID(ctx, s.db, tc.TenantID(), id)
	if err != nil {
		return err
	}
	if project == nil {
		return apperror.NotFound("project not found")
	}

	membership, err := s.tenantRepo.FindMembership(ctx, s.db, tc.TenantID(), userID)
	if err != nil {
		return err
	}
	if membership == nil || !membership.IsActive {
		return apperror.Reference("user is not an active member of this workspace")
	}

	assignment := domain.ProjectAssignment{
		ID:        s.genID.Generate(),
		ProjectID: project.ID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.InsertAssignment(ctx, s.db, &assignment); err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return apperror.ConflictFrom("user is already assigned to this project", err)
		}
		return err
	}
	return nil
}

func (s *Service) UnassignMember(ctx context.Context, tc tenantdomain.TenantContext, id, userID snowflake.ID) error {
	project, err := s.repo.FindByID(ctx, s.db, tc.TenantID(), id)
	if err != nil {
		return err
	}
	if project == nil {
		return apperror.NotFound("project not found")
	}
	return s.repo.DeleteAssignment(ctx, s.db, project.ID, userID)
}

func (s *Service) ListAssignedUsers(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID) ([]snowflake.ID, error) {
	project, err := s.repo.FindByID(ctx, s.db, tc.TenantID(), id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NotFound("project not found")
	}
	return s.repo.ListAssignedUserIDs(ctx, s.db, project.ID)
}

func (s *Service) Delete(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID) error {
	project, err := s.repo.FindByID(ctx, s.db, tc.TenantID(), id)
	if err != nil {
		return err
	}
	if project == nil {
		return apperror.NotFound("project not found")
	}

	s.log.Info("deleting project and owned records",
		zap.String("tenant_id", tc.TenantID().String()),
		zap.String("project_id", id.String()),
	)

	return s.repo.DeleteCascade(ctx, s.db, id)
}

func (s *Service) validateClient(ctx context.Context, tc tenantdomain.TenantContext, clientID snowflake.ID) error {
	client, err := s.clientRepo.FindByID(ctx, s.db, tc.TenantID(), clientID)
	if err != nil {
		return err
	}
	if client == nil {
		return apperror.Reference("client does not belong to this workspace")
	}
	return nil
}
