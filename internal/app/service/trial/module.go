package trial

import "go.uber.org/fx"

// Module exposes the trial/subscription manager via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
