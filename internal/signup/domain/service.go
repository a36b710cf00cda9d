// Package domain defines the workspace provisioning contract used by the
// signup flow.
package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	tenantdomain "github.com/lumora-hq/lumora/internal/tenant/domain"
)

type ProvisionWorkspaceRequest struct {
	OwnerID   snowflake.ID
	Name      string
	Subdomain string
	Plan      tenantdomain.Plan
}

type WorkspaceResult struct {
	Tenant     tenantdomain.Tenant     `json:"tenant"`
	Membership tenantdomain.Membership `json:"membership"`
}

// Service sequences "create tenant, then add owner membership" atomically so
// no tenant ever exists without an owner member.
type Service interface {
	ProvisionWorkspace(ctx context.Context, req ProvisionWorkspaceRequest) (WorkspaceResult, error)
}
