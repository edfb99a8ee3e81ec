package content

import "go.uber.org/fx"

// Module exposes the blog content service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
