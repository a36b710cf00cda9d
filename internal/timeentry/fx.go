package timeentry

import (
	"github.com/lumora-hq/lumora/internal/timeentry/repository"
	"github.com/lumora-hq/lumora/internal/timeentry/service"
	"go.uber.org/fx"
)

var Module = fx.Module("timeentry.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
