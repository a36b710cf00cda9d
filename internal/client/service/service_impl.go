package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/internal/apperror"
	"github.com/lumora-hq/lumora/internal/client/domain"
	invoicingdomain "github.com/lumora-hq/lumora/internal/invoicing/domain"
	tenantdomain "github.com/lumora-hq/lumora/internal/tenant/domain"
	dbpkg "github.com/lumora-hq/lumora/pkg/db"
	"github.com/lumora-hq/lumora/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Invoicing invoicingdomain.Reader
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	invoicing invoicingdomain.Reader
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("client.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		invoicing: p.Invoicing,
	}
}

func (s *Service) Create(ctx context.Context, tc tenantdomain.TenantContext, req domain.CreateClientRequest) (domain.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Client{}, apperror.Validation("name", "required", "name is required")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Client{}, apperror.Validation("email", "invalid_email", "a valid email address is required")
	}

	now := time.Now().UTC()
	client := domain.Client{
		ID:        s.genID.Generate(),
		TenantID:  tc.TenantID(),
		Name:      name,
		Email:     email,
		Company:   strings.TrimSpace(req.Company),
		Status:    domain.ClientStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &client); err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return domain.Client{}, apperror.ConflictFrom("a client with this email already exists in this workspace", err)
		}
		return domain.Client{}, err
	}

	return client, nil
}

func (s *Service) GetByID(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID) (domain.ClientView, error) {
	client, err := s.repo.FindByID(ctx, s.db, tc.TenantID(), id)
	if err != nil {
		return domain.ClientView{}, err
	}
	if client == nil {
		return domain.ClientView{}, apperror.NotFound("client not found")
	}

	view := domain.ClientView{Client: *client}

	view.TotalProjects, err = s.repo.CountProjects(ctx, s.db, client.ID)
	if err != nil {
		return domain.ClientView{}, err
	}
	view.ActiveProjects, err = s.repo.CountProjectsByStatus(ctx, s.db, client.ID, "active")
	if err != nil {
		return domain.ClientView{}, err
	}
	view.TotalInvoiced, err = s.invoicing.SumInvoicedAmount(ctx, s.db, client.ID, invoicingdomain.BillableStatuses)
	if err != nil {
		return domain.ClientView{}, err
	}

	return view, nil
}

func (s *Service) List(ctx context.Context, tc tenantdomain.TenantContext, req domain.ListClientsRequest) (domain.ListClientsResponse, error) {
	if req.Status != "" && !domain.ValidClientStatus(req.Status) {
		return domain.ListClientsResponse{}, apperror.Validation("status", "invalid_status", "unknown client status")
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, tc.TenantID(), domain.ListClientsFilter{Status: req.Status}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListClientsResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(client *domain.Client) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        client.ID.String(),
			CreatedAt: client.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	clients := make([]domain.Client, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		clients = append(clients, *item)
	}

	resp := domain.ListClientsResponse{Clients: clients}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) UpdateStatus(ctx context.Context, tc tenantdomain.TenantContext, req domain.UpdateClientStatusRequest) (domain.Client, error) {
	if !domain.ValidClientStatus(req.Status) {
		return domain.Client{}, apperror.Validation("status", "invalid_status", "unknown client status")
	}

	client, err := s.repo.FindByID(ctx, s.db, tc.TenantID(), req.ID)
	if err != nil {
		return domain.Client{}, err
	}
	if client == nil {
		return domain.Client{}, apperror.NotFound("client not found")
	}

	client.Status = req.Status
	client.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, client); err != nil {
		return domain.Client{}, err
	}
	return *client, nil
}

func (s *Service) Delete(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID) error {
	client, err := s.repo.FindByID(ctx, s.db, tc.TenantID(), id)
	if err != nil {
		return err
	}
	if client == nil {
		return apperror.NotFound("client not found")
	}

	s.log.Info("deleting client and owned records",
		zap.String("tenant_id", tc.TenantID().String()),
		zap.String("client_id", id.String()),
	)

	return s.repo.DeleteCascade(ctx, s.db, id)
}

func (s *Service) AddContact(ctx context.Context, tc tenantdomain.TenantContext, req domain.AddContactRequest) (domain.ClientContact, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ClientContact{}, apperror.Validation("name", "required", "name is required")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.ClientContact{}, apperror.Validation("email", "invalid_email", "a valid email address is required")
	}

	client, err := s.repo.FindByID(ctx, s.db, tc.TenantID(), req.ClientID)
	if err != nil {
		return domain.ClientContact{}, err
	}
	if client == nil {
		return domain.ClientContact{}, apperror.NotFound("client not found")
	}

	contact := domain.ClientContact{
		ID:        s.genID.Generate(),
		ClientID:  client.ID,
		Name:      name,
		Email:     email,
		IsPrimary: req.IsPrimary,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.InsertContact(ctx, s.db, &contact); err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return domain.ClientContact{}, apperror.ConflictFrom("a contact with this email already exists for this client", err)
		}
		return domain.ClientContact{}, err
	}

	return contact, nil
}

func (s *Service) ListContacts(ctx context.Context, tc tenantdomain.TenantContext, clientID snowflake.ID) ([]domain.ClientContact, error) {
	client, err := s.repo.FindByID(ctx, s.db, tc.TenantID(), clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NotFound("client not found")
	}
	return s.repo.ListContacts(ctx, s.db, clientID)
}
