package user

import (
	"github.com/lumora-hq/lumora/internal/user/repository"
	"github.com/lumora-hq/lumora/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
