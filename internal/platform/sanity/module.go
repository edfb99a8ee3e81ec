package sanity

import "go.uber.org/fx"

// Module exposes the content provider client and image resolver via Fx.
var Module = fx.Options(
	fx.Provide(New),
	fx.Provide(NewImageResolver),
)
