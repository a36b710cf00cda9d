package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type CreateTenantRequest struct {
	Name      string
	Subdomain string
	OwnerID   snowflake.ID
	Plan      Plan
}

type AddMemberRequest struct {
	TenantID snowflake.ID
	UserID   snowflake.ID
	Role     Role
}

type MemberView struct {
	UserID   snowflake.ID `json:"user_id"`
	Email    string       `json:"email"`
	Name     string       `json:"name"`
	Role     Role         `json:"role"`
	IsActive bool         `json:"is_active"`
	JoinedAt time.Time    `json:"joined_at"`
}

type TenantListItem struct {
	ID        snowflake.ID `json:"id"`
	Name      string       `json:"name"`
	Subdomain string       `json:"subdomain"`
	Role      Role         `json:"role"`
	IsActive  bool         `json:"is_active"`
}

// Service covers the tenant directory, the membership registry and the access
// context resolver.
type Service interface {
	// Create registers a tenant. It deliberately does not create the owner
	// membership; the signup flow sequences both primitives in one transaction.
	Create(ctx context.Context, req CreateTenantRequest) (Tenant, error)
	GetByID(ctx context.Context, id snowflake.ID) (Tenant, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]TenantListItem, error)
	UpdateSettings(ctx context.Context, tc TenantContext, settings datatypes.JSONMap) (Tenant, error)

	AddMember(ctx context.Context, req AddMemberRequest) (Membership, error)
	UpdateRole(ctx context.Context, tc TenantContext, userID snowflake.ID, newRole Role) (Membership, error)
	RemoveMember(ctx context.Context, tc TenantContext, userID snowflake.ID) error
	ListMembers(ctx context.Context, tc TenantContext) ([]MemberView, error)

	// ResolveContext is the single gate that turns an acting user and a target
	// subdomain into a TenantContext, or fails closed.
	ResolveContext(ctx context.Context, userID snowflake.ID, subdomain string) (TenantContext, error)

	// Delete destroys the tenant and every owned descendant in one transaction.
	Delete(ctx context.Context, tc TenantContext) error
}
