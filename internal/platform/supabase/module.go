package supabase

import "go.uber.org/fx"

// Module exposes the authentication and object storage provider clients.
var Module = fx.Options(
	fx.Provide(NewClient),
	fx.Provide(NewAuth),
	fx.Provide(NewAvatarStore),
)
