package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/qybrrlabs/portal/internal/app/api/server"
	"github.com/qybrrlabs/portal/internal/app/service/account"
	"github.com/qybrrlabs/portal/internal/app/service/content"
	"github.com/qybrrlabs/portal/internal/app/service/newsletter"
	"github.com/qybrrlabs/portal/internal/app/service/session"
	"github.com/qybrrlabs/portal/internal/app/service/trial"
	"github.com/qybrrlabs/portal/internal/platform/mailer"
	"github.com/qybrrlabs/portal/internal/platform/sanity"
	"github.com/qybrrlabs/portal/internal/platform/supabase"
	"github.com/qybrrlabs/portal/pkg/config"
	"github.com/qybrrlabs/portal/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

// bindings connects platform implementations to the interfaces the
// services consume.
var bindings = fx.Provide(
	func(a *supabase.Auth) session.Authenticator { return a },
	func(s *supabase.AvatarStore) account.Uploader { return s },
	func(a *mailer.MailchimpAudience) newsletter.Audience { return a },
	func(s *mailer.ResendSender) newsletter.Sender { return s },
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	supabase.Module,
	sanity.Module,
	mailer.Module,
	bindings,
	session.Module,
	account.Module,
	trial.Module,
	newsletter.Module,
	content.Module,
	server.Module,
)
