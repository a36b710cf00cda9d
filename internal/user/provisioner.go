package user

import (
	"context"

	"github.com/lumora-hq/lumora/internal/user/domain"
	"go.uber.org/fx"
)

type noopProvisioner struct{}

// NewNoopProvisioner returns a provisioner that does nothing. Deployments that
// bootstrap a workspace on registration replace it with the signup flow.
func NewNoopProvisioner() domain.Provisioner {
	return &noopProvisioner{}
}

func (p *noopProvisioner) Provision(ctx context.Context, user domain.User) error {
	_ = ctx
	_ = user
	return nil
}

// ProvisionerModule wires the default provisioner separately so apps can
// override it.
var ProvisionerModule = fx.Module("user.provisioner",
	fx.Provide(NewNoopProvisioner),
)
