package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	tenantdomain "github.com/lumora-hq/lumora/internal/tenant/domain"
	"github.com/lumora-hq/lumora/pkg/db/pagination"
)

type CreateClientRequest struct {
	Name    string
	Email   string
	Company string
}

type UpdateClientStatusRequest struct {
	ID     snowflake.ID
	Status ClientStatus
}

type AddContactRequest struct {
	ClientID  snowflake.ID
	Name      string
	Email     string
	IsPrimary bool
}

type ListClientsRequest struct {
	PageToken string
	PageSize  int
	Status    ClientStatus
}

type ListClientsResponse struct {
	pagination.PageInfo
	Clients []Client `json:"clients"`
}

// ClientView is a client together with its read-time aggregates. The
// aggregates are recomputed from current state on every query, so they are
// always consistent with the latest commit visible to the reader.
type ClientView struct {
	Client
	TotalProjects  int64 `json:"total_projects"`
	ActiveProjects int64 `json:"active_projects"`
	TotalInvoiced  int64 `json:"total_invoiced"`
}

type Service interface {
	Create(ctx context.Context, tc tenantdomain.TenantContext, req CreateClientRequest) (Client, error)
	GetByID(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID) (ClientView, error)
	List(ctx context.Context, tc tenantdomain.TenantContext, req ListClientsRequest) (ListClientsResponse, error)
	UpdateStatus(ctx context.Context, tc tenantdomain.TenantContext, req UpdateClientStatusRequest) (Client, error)
	Delete(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID) error

	AddContact(ctx context.Context, tc tenantdomain.TenantContext, req AddContactRequest) (ClientContact, error)
	ListContacts(ctx context.Context, tc tenantdomain.TenantContext, clientID snowflake.ID) ([]ClientContact, error)
}
