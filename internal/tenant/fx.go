package tenant

import (
	"github.com/lumora-hq/lumora/internal/tenant/repository"
	"github.com/lumora-hq/lumora/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
