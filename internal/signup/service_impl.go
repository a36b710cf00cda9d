package signup

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/lumora-hq/lumora/internal/apperror"
	"github.com/lumora-hq/lumora/internal/signup/domain"
	tenantdomain "github.com/lumora-hq/lumora/internal/tenant/domain"
	dbpkg "github.com/lumora-hq/lumora/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var subdomainPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	TenantRepo tenantdomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	tenantRepo tenantdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("signup.service"),
		genID:      p.GenID,
		tenantRepo: p.TenantRepo,
	}
}

func (s *Service) ProvisionWorkspace(ctx context.Context, req domain.ProvisionWorkspaceRequest) (domain.WorkspaceResult, error) {
	if req.OwnerID == 0 {
		return domain.WorkspaceResult{}, apperror.Validation("owner_id", "required", "owner is required")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.WorkspaceResult{}, apperror.Validation("name", "required", "workspace name is required")
	}

	subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain))
	if subdomain == "" {
		subdomain = slug.Make(name)
	}
	if !subdomainPattern.MatchString(subdomain) {
		return domain.WorkspaceResult{}, apperror.Validation("subdomain", "invalid_charset", "subdomain may only contain letters, digits and hyphens")
	}

	plan := req.Plan
	if plan == "" {
		plan = tenantdomain.PlanFree
	}
	if !tenantdomain.ValidPlan(plan) {
		return domain.WorkspaceResult{}, apperror.Validation("plan", "invalid_plan", "unknown plan")
	}

	now := time.Now().UTC()
	tenant := tenantdomain.Tenant{
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
	membership := tenantdomain.Membership{
		ID:       s.genID.Generate(),
		TenantID: tenant.ID,
		UserID:   req.OwnerID,
		Role:     tenantdomain.RoleOwner,
		IsActive: true,
		JoinedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tenantRepo.Insert(ctx, tx, &tenant); err != nil {
			return err
		}
		return s.tenantRepo.InsertMembership(ctx, tx, &membership)
	})
	if err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return domain.WorkspaceResult{}, apperror.ConflictFrom("subdomain already taken", err)
		}
		return domain.WorkspaceResult{}, err
	}

	s.log.Info("workspace provisioned",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("subdomain", tenant.Subdomain),
		zap.String("owner_id", req.OwnerID.String()),
	)

	return domain.WorkspaceResult{Tenant: tenant, Membership: membership}, nil
}
