package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/internal/apperror"
	"github.com/lumora-hq/lumora/internal/tenant/domain"
	dbpkg "github.com/lumora-hq/lumora/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var subdomainPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tenant.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTenantRequest) (domain.Tenant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Tenant{}, apperror.Validation("name", "required", "name is required")
	}

	subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain))
	if !subdomainPattern.MatchString(subdomain) {
		return domain.Tenant{}, apperror.Validation("subdomain", "invalid_charset", "subdomain may only contain letters, digits and hyphens")
	}

	if req.OwnerID == 0 {
		return domain.Tenant{}, apperror.Validation("owner_id", "required", "owner is required")
	}

	plan := req.Plan
	if plan == "" {
		plan = domain.PlanFree
	}
	if !domain.ValidPlan(plan) {
		return domain.Tenant{}, apperror.Validation("plan", "invalid_plan", "unknown plan")
	}

	now := time.Now().UTC()
	tenant := domain.Tenant{
		ID:        s.genID.Generate(),
		Name:      name,
		Subdomain: subdomain,
		OwnerID:   req.OwnerID,
		Plan:      plan,
		IsActive:  true,
		Settings:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &tenant); err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return domain.Tenant{}, apperror.ConflictFrom("subdomain already taken", err)
		}
		return domain.Tenant{}, err
	}

	s.log.Info("tenant created",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("subdomain", tenant.Subdomain),
	)

	return tenant, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Tenant, error) {
	tenant, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Tenant{}, err
	}
	if tenant == nil {
		return domain.Tenant{}, apperror.NotFound("tenant not found")
	}
	return *tenant, nil
}

func (s *Service) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.TenantListItem, error) {
	return s.repo.ListByUser(ctx, s.db, userID)
}

func (s *Service) UpdateSettings(ctx context.Context, tc domain.TenantContext, settings datatypes.JSONMap) (domain.Tenant, error) {
	if !tc.Can(domain.RoleAdmin) {
		return domain.Tenant{}, apperror.AccessDenied("updating tenant settings requires the admin role")
	}

	tenant, err := s.repo.FindByID(ctx, s.db, tc.TenantID())
	if err != nil {
		return domain.Tenant{}, err
	}
	if tenant == nil {
		return domain.Tenant{}, apperror.NotFound("tenant not found")
	}

	if settings == nil {
		settings = datatypes.JSONMap{}
	}
	tenant.Settings = settings
	tenant.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, tenant); err != nil {
		return domain.Tenant{}, err
	}
	return *tenant, nil
}

func (s *Service) AddMember(ctx context.Context, req domain.AddMemberRequest) (domain.Membership, error) {
	if req.TenantID == 0 || req.UserID == 0 {
		return domain.Membership{}, apperror.Validation("membership", "required", "tenant and user are required")
	}
	if !domain.ValidRole(req.Role) {
		return domain.Membership{}, apperror.Validation("role", "invalid_role", "unknown role")
	}

	membership := domain.Membership{
		ID:       s.genID.Generate(),
		TenantID: req.TenantID,
		UserID:   req.UserID,
		Role:     req.Role,
		IsActive: true,
		JoinedAt: time.Now().UTC(),
	}

	if err := s.repo.InsertMembership(ctx, s.db, &membership); err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return domain.Membership{}, apperror.ConflictFrom("user is already a member of this tenant", err)
		}
		return domain.Membership{}, err
	}

	return membership, nil
}

func (s *Service) UpdateRole(ctx context.Context, tc domain.TenantContext, userID snowflake.ID, newRole domain.Role) (domain.Membership, error) {
	if !tc.Can(domain.RoleAdmin) {
		return domain.Membership{}, apperror.AccessDenied("changing member roles requires the admin role")
	}
	if !domain.ValidRole(newRole) {
		return domain.Membership{}, apperror.Validation("role", "invalid_role", "unknown role")
	}

	membership, err := s.repo.FindMembership(ctx, s.db, tc.TenantID(), userID)
	if err != nil {
		return domain.Membership{}, err
	}
	if membership == nil {
		return domain.Membership{}, apperror.NotFound("membership not found")
	}
	if membership.Role == domain.RoleOwner {
		return domain.Membership{}, apperror.AccessDenied("the owner membership cannot be changed")
	}

	membership.Role = newRole
	if err := s.repo.UpdateMembership(ctx, s.db, membership); err != nil {
		return domain.Membership{}, err
	}
	return *membership, nil
}

func (s *Service) RemoveMember(ctx context.Context, tc domain.TenantContext, userID snowflake.ID) error {
	if !tc.Can(domain.RoleAdmin) {
		return apperror.AccessDenied("removing members requires the admin role")
	}

	membership, err := s.repo.FindMembership(ctx, s.db, tc.TenantID(), userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return apperror.NotFound("membership not found")
	}
	if membership.Role == domain.RoleOwner {
		return apperror.AccessDenied("the owner membership cannot be removed")
	}

	return s.repo.DeleteMembership(ctx, s.db, tc.TenantID(), userID)
}

func (s *Service) ListMembers(ctx context.Context, tc domain.TenantContext) ([]domain.MemberView, error) {
	return s.repo.ListMembers(ctx, s.db, tc.TenantID())
}

// ResolveContext fails closed: an unknown subdomain, an inactive tenant and a
// missing or inactive membership all produce the same denial.
func (s *Service) ResolveContext(ctx context.Context, userID snowflake.ID, subdomain string) (domain.TenantContext, error) {
	target := strings.ToLower(strings.TrimSpace(subdomain))
	if userID == 0 || target == "" {
		return domain.TenantContext{}, apperror.AccessDenied("no workspace access")
	}

	tenant, err := s.repo.FindBySubdomain(ctx, s.db, target)
	if err != nil {
		return domain.TenantContext{}, err
	}
	if tenant == nil || !tenant.IsActive {
		return domain.TenantContext{}, apperror.AccessDenied("no workspace access")
	}

	membership, err := s.repo.FindMembership(ctx, s.db, tenant.ID, userID)
	if err != nil {
		return domain.TenantContext{}, err
	}
	if membership == nil || !membership.IsActive {
		return domain.TenantContext{}, apperror.AccessDenied("no workspace access")
	}

	return domain.TenantContext{Tenant: *tenant, Role: membership.Role}, nil
}

func (s *Service) Delete(ctx context.Context, tc domain.TenantContext) error {
	if !tc.Can(domain.RoleOwner) {
		return apperror.AccessDenied("deleting a tenant requires the owner role")
	}

	s.log.Warn("deleting tenant and all owned records",
		zap.String("tenant_id", tc.TenantID().String()),
	)

	return s.repo.DeleteCascade(ctx, s.db, tc.TenantID())
}
