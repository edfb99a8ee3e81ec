package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hanzoai/gochimp3"
	"go.uber.org/zap"

	"github.com/qybrrlabs/portal/internal/app/service/newsletter"
	cfgpkg "github.com/qybrrlabs/portal/pkg/config"
)

// MailchimpAudience adds members to the configured audience with single
// opt-in. The list handle is fetched lazily so the process can start without
// the provider being reachable.
type MailchimpAudience struct {
	api        *gochimp3.API
	audienceID string
	log        *zap.SugaredLogger
}

func NewMailchimpAudience(cfg *cfgpkg.Config, log *zap.SugaredLogger) *MailchimpAudience {
	return &MailchimpAudience{
		api:        gochimp3.New(cfg.Mailchimp.APIKey),
		audienceID: cfg.Mailchimp.AudienceID,
		log:        log,
	}
}

func (m *MailchimpAudience) AddMember(ctx context.Context, email string) error {
	list, err := m.api.GetList(m.audienceID, nil)
	if err != nil {
		return fmt.Errorf("failed to load audience %s: %w", m.audienceID, err)
	}

	_, err = list.CreateMember(&gochimp3.MemberRequest{
		EmailAddress: email,
		Status:       "subscribed",
	})
	if err != nil {
		if isMemberExists(err) {
			return fmt.Errorf("%w: %s", newsletter.ErrMemberExists, email)
		}
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// isMemberExists recognizes the provider's existing-member rejection, which
// surfaces in a few shapes depending on the member's current status.
func isMemberExists(err error) bool {
	var apiErr *gochimp3.APIError
	if errors.As(err, &apiErr) && apiErr != nil {
		if apiErr.Title == "Member Exists" {
			return true
		}
		detail := strings.ToLower(apiErr.Detail)
		if strings.Contains(detail, "already a list member") {
			return true
		}
		if apiErr.Status == 400 && strings.Contains(detail, "is already subscribed") {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "member exists") || strings.Contains(msg, "already a list member")
}
