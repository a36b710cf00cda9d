package client

import (
	"github.com/lumora-hq/lumora/internal/client/repository"
	"github.com/lumora-hq/lumora/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
