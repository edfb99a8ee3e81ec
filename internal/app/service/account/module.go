package account

import "go.uber.org/fx"

// Module exposes the metadata document accessor and account service via Fx.
var Module = fx.Options(
	fx.Provide(NewAccessor),
	fx.Provide(NewService),
)
