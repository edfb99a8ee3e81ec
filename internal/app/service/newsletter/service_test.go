package newsletter

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAudience struct {
	added []string
	err   error
}

func (s *stubAudience) AddMember(ctx context.Context, email string) error {
	s.added = append(s.added, email)
	return s.err
}

type stubSender struct {
	sent []string
	err  error
}

func (s *stubSender) Send(ctx context.Context, to, subject, html string) error {
	s.sent = append(s.sent, to)
	return s.err
}

func TestSubscribe(t *testing.T) {
	audience := &stubAudience{}
	sender := &stubSender{}
	svc := NewService(audience, sender, zap.NewNop().Sugar())

	require.NoError(t, svc.Subscribe(context.Background(), "amaka@qybrrlabs.africa"))
	require.Equal(t, []string{"amaka@qybrrlabs.africa"}, audience.added)
	require.Equal(t, []string{"amaka@qybrrlabs.africa"}, sender.sent)
}

func TestSubscribeEmptyEmail(t *testing.T) {
	audience := &stubAudience{}
	svc := NewService(audience, &stubSender{}, zap.NewNop().Sugar())

	require.ErrorIs(t, svc.Subscribe(context.Background(), ""), ErrEmailRequired)
	require.Empty(t, audience.added)
}

func TestSubscribeMemberExists(t *testing.T) {
	audience := &stubAudience{err: fmt.Errorf("provider says: %w", ErrMemberExists)}
	sender := &stubSender{}
	svc := NewService(audience, sender, zap.NewNop().Sugar())

	err := svc.Subscribe(context.Background(), "amaka@qybrrlabs.africa")
	require.ErrorIs(t, err, ErrMemberExists)
	require.Empty(t, sender.sent)
}

func TestSubscribeProviderFailure(t *testing.T) {
	audience := &stubAudience{err: errors.New("list service down")}
	sender := &stubSender{}
	svc := NewService(audience, sender, zap.NewNop().Sugar())

	err := svc.Subscribe(context.Background(), "amaka@qybrrlabs.africa")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrMemberExists)
	require.Empty(t, sender.sent)
}

func TestSubscribeSwallowsWelcomeEmailFailure(t *testing.T) {
	audience := &stubAudience{}
	sender := &stubSender{err: errors.New("smtp timeout")}
	svc := NewService(audience, sender, zap.NewNop().Sugar())

	require.NoError(t, svc.Subscribe(context.Background(), "amaka@qybrrlabs.africa"))
	require.Equal(t, []string{"amaka@qybrrlabs.africa"}, audience.added)
}
