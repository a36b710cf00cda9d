package task

import (
	"github.com/lumora-hq/lumora/internal/task/repository"
	"github.com/lumora-hq/lumora/internal/task/service"
	"go.uber.org/fx"
)

var Module = fx.Module("task.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
