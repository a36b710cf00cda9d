// Package domain contains persistence models for tenants and memberships.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Plan is the subscription tier of a tenant.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanBasic      Plan = "basic"
	PlanPremium    Plan = "premium"
	PlanEnterprise Plan = "enterprise"
)

// ValidPlan reports whether p is a known plan.
func ValidPlan(p Plan) bool {
	switch p {
	case PlanFree, PlanBasic, PlanPremium, PlanEnterprise:
		return true
	default:
		return false
	}
}

// Role is a member's privilege level within a tenant.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

var roleRank = map[Role]int{
	RoleOwner:  4,
	RoleAdmin:  3,
	RoleMember: 2,
	RoleViewer: 1,
}

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r carries at least the privilege of min.
// Ordering: owner > admin > member > viewer.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

// Tenant is an isolated workspace. Every business record resolves to exactly
// one tenant.
type Tenant struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"type:text;not null" json:"name"`
	Subdomain string            `gorm:"type:text;not null;uniqueIndex:ux_tenants_subdomain" json:"subdomain"`
	OwnerID   snowflake.ID      `gorm:"not null;index" json:"owner_id"`
	Plan      Plan              `gorm:"type:text;not null;default:'free'" json:"plan"`
	IsActive  bool              `gorm:"not null;default:true;index" json:"is_active"`
	Settings  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"settings"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }

// Membership binds a user to a tenant with exactly one role. It is the
// authorization source of truth.
type Membership struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID snowflake.ID `gorm:"not null;index;uniqueIndex:ux_memberships_tenant_user,priority:1" json:"tenant_id"`
	UserID   snowflake.ID `gorm:"not null;index;uniqueIndex:ux_memberships_tenant_user,priority:2" json:"user_id"`
	Role     Role         `gorm:"type:text;not null" json:"role"`
	IsActive bool         `gorm:"not null;default:true" json:"is_active"`
	JoinedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"joined_at"`
}

// TableName sets the database table name.
func (Membership) TableName() string { return "memberships" }
