package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	cfgpkg "github.com/qybrrlabs/portal/pkg/config"
)

// ResendSender sends transactional email through the configured provider
// from the verified sender address.
type ResendSender struct {
	client *resend.Client
	from   string
	log    *zap.SugaredLogger
}

func NewResendSender(cfg *cfgpkg.Config, log *zap.SugaredLogger) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(cfg.Resend.APIKey),
		from:   cfg.Resend.From,
		log:    log,
	}
}

func (r *ResendSender) Send(ctx context.Context, to, subject, html string) error {
	_, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}
