package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Tenant, error)
	FindBySubdomain(ctx context.Context, db *gorm.DB, subdomain string) (*Tenant, error)
	Update(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]TenantListItem, error)

	InsertMembership(ctx context.Context, db *gorm.DB, membership *Membership) error
	FindMembership(ctx context.Context, db *gorm.DB, tenantID, userID snowflake.ID) (*Membership, error)
	UpdateMembership(ctx context.Context, db *gorm.DB, membership *Membership) error
	DeleteMembership(ctx context.Context, db *gorm.DB, tenantID, userID snowflake.ID) error
	ListMembers(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]MemberView, error)

	// DeleteCascade removes the tenant, its memberships and the full resource
	// hierarchy underneath it, children first, in one transaction.
	DeleteCascade(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) error
}
