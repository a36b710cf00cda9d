package signup

import "go.uber.org/fx"

var Module = fx.Module("signup.service",
	fx.Provide(New),
)
