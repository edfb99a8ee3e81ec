package newsletter

import "go.uber.org/fx"

// Module exposes the newsletter service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
