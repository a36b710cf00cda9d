package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/internal/apperror"
	"github.com/lumora-hq/lumora/internal/user/domain"
	dbpkg "github.com/lumora-hq/lumora/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var subdomainPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	Provisioner domain.Provisioner
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	provisioner domain.Provisioner
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("user.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		provisioner: p.Provisioner,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterUserRequest) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, apperror.Validation("email", "invalid_email", "a valid email address is required")
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" {
		return domain.User{}, apperror.Validation("first_name", "required", "first name is required")
	}
	if lastName == "" {
		return domain.User{}, apperror.Validation("last_name", "required", "last name is required")
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:        s.genID.Generate(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Provisioning runs synchronously inside the same transaction so a failure
	// rolls the user row back instead of leaving a half-initialized account.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &user); err != nil {
			if dbpkg.IsDuplicateKeyErr(err) {
				return apperror.ConflictFrom("email already registered", err)
			}
			return err
		}

		if err := s.provisioner.Provision(ctx, user); err != nil {
			s.log.Error("post-registration provisioning failed",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, apperror.NotFound("user not found")
	}
	return *user, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, s.db, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, apperror.NotFound("user not found")
	}
	return *user, nil
}

func (s *Service) SetSubdomain(ctx context.Context, id snowflake.ID, subdomain string) (domain.User, error) {
	value := strings.ToLower(strings.TrimSpace(subdomain))
	if !subdomainPattern.MatchString(value) {
		return domain.User{}, apperror.Validation("subdomain", "invalid_charset", "subdomain may only contain letters, digits and hyphens")
	}

	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, apperror.NotFound("user not found")
	}

	user.Subdomain = &value
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, user); err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return domain.User{}, apperror.ConflictFrom("subdomain already taken", err)
		}
		return domain.User{}, err
	}
	return *user, nil
}

func (s *Service) MarkVerified(ctx context.Context, id snowflake.ID) error {
	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NotFound("user not found")
	}
	user.IsVerified = true
	user.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, s.db, user)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NotFound("user not found")
	}

	owned, err := s.repo.CountOwnedTenants(ctx, s.db, id)
	if err != nil {
		return err
	}
	if owned > 0 {
		return apperror.Reference("user still owns tenants; transfer or delete them first")
	}

	return s.repo.DeleteCascade(ctx, s.db, id)
}
