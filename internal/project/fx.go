package project

import (
	"github.com/lumora-hq/lumora/internal/project/repository"
	"github.com/lumora-hq/lumora/internal/project/service"
	"go.uber.org/fx"
)

var Module = fx.Module("project.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
