package domain

import "github.com/bwmarrin/snowflake"

// TenantContext is the resolved (tenant, role) pair attached to an authorized
// operation. It is produced only by the access resolver and threaded as an
// explicit parameter through every resource call; it is never stored in
// request-global or ambient state.
type TenantContext struct {
	Tenant Tenant
	Role   Role
}

// TenantID returns the id of the resolved tenant.
func (c TenantContext) TenantID() snowflake.ID { return c.Tenant.ID }

// Can reports whether the caller holds at least the given role.
func (c TenantContext) Can(min Role) bool { return c.Role.AtLeast(min) }
