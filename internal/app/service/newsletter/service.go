package newsletter

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/qybrrlabs/portal/pkg/logctx"
)

// ErrMemberExists marks the mailing-list provider's "already subscribed"
// rejection so the HTTP surface can answer 409 instead of 500.
var ErrMemberExists = errors.New("email already subscribed")

var (
	ErrEmailRequired = errors.New("email is required")
)

// Audience is the mailing-list provider contract. AddMember is called
// at-most-once per subscribe action and must wrap the provider's
// member-exists rejection with ErrMemberExists.
type Audience interface {
	AddMember(ctx context.Context, email string) error
}

// Sender is the transactional email provider contract.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

const welcomeSubject = "Welcome to the QybrrLabs Newsletter - Your AI Edge Starts Here!"

const welcomeHTML = `
<div>
  <p>Hi,</p>
  <p>The future of AI isn't just coming - it's already here, and you're now part of the inner circle.</p>
  <p>As a subscriber, you'll get:</p>
  <ul>
    <li>Exclusive access to cutting-edge AI insights (before anyone else).</li>
    <li>Pro tips to supercharge your SaaS strategy with automation.</li>
    <li>Behind-the-scenes peeks at QybrrLabs' latest breakthroughs.</li>
  </ul>
  <p>No fluff, just high-impact intelligence to keep you ahead.</p>
  <p>- The QybrrLabs Team</p>
</div>
`

// Service records newsletter subscriptions with the mailing-list provider
// and sends a welcome email. List membership is the primary outcome; a
// failed welcome email is swallowed so the subscribe still reports success.
type Service struct {
	audience Audience
	sender   Sender
	log      *zap.SugaredLogger
}

func NewService(audience Audience, sender Sender, log *zap.SugaredLogger) *Service {
	return &Service{audience: audience, sender: sender, log: log}
}

// Subscribe adds email to the audience, then best-effort sends the welcome
// email. Returns ErrEmailRequired for an empty email, ErrMemberExists when
// the address is already on the list, and the provider error otherwise.
func (s *Service) Subscribe(ctx context.Context, email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	if err := s.audience.AddMember(ctx, email); err != nil {
		if errors.Is(err, ErrMemberExists) {
			return err
		}
		return fmt.Errorf("failed to add list member: %w", err)
	}

	if err := s.sender.Send(ctx, email, welcomeSubject, welcomeHTML); err != nil {
		// Membership is recorded; the welcome email is not worth failing
		// the subscribe over.
		logctx.FromCtx(ctx, s.log).Warnf("welcome email failed for %s: %v", email, err)
	}
	return nil
}
