package session

import "go.uber.org/fx"

// Module exposes the session gatekeeper and change notifier via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(NewNotifier),
)
