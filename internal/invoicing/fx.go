package invoicing

import (
	"github.com/lumora-hq/lumora/internal/invoicing/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("invoicing.reader",
	fx.Provide(repository.Provide),
)
