package mailer

import "go.uber.org/fx"

// Module exposes the mailing-list and transactional email provider clients.
var Module = fx.Options(
	fx.Provide(NewMailchimpAudience),
	fx.Provide(NewResendSender),
)
