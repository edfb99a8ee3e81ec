package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qybrrlabs/portal/internal/app/service/session"
	"github.com/qybrrlabs/portal/pkg/types"
)

type stubAccessor struct {
	lastPatch map[string]interface{}
	writes    int
	err       error
}

func (s *stubAccessor) ReadCurrent(ctx context.Context, accessToken string) (*types.User, error) {
	panic("not used")
}

func (s *stubAccessor) Write(ctx context.Context, accessToken string, patch map[string]interface{}) (*types.User, error) {
	s.writes++
	s.lastPatch = patch
	if s.err != nil {
		return nil, s.err
	}
	return &types.User{ID: "user-1"}, nil
}

type stubAuthenticator struct {
	updateCalls int
	lastAttrs   map[string]interface{}
	err         error
}

func (s *stubAuthenticator) SignUp(ctx context.Context, email, password string, doc map[string]interface{}) (*types.User, error) {
	panic("not used")
}

func (s *stubAuthenticator) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	panic("not used")
}

func (s *stubAuthenticator) Refresh(ctx context.Context, accessToken, refreshToken string) (*session.Session, error) {
	panic("not used")
}

func (s *stubAuthenticator) SignOut(ctx context.Context, accessToken string) error {
	panic("not used")
}

func (s *stubAuthenticator) User(ctx context.Context, accessToken string) (*types.User, error) {
	panic("not used")
}

func (s *stubAuthenticator) UpdateUser(ctx context.Context, accessToken string, attrs map[string]interface{}) (*types.User, error) {
	s.updateCalls++
	s.lastAttrs = attrs
	if s.err != nil {
		return nil, s.err
	}
	return &types.User{ID: "user-1"}, nil
}

type fakeUploader struct {
	keys []string
	err  error
}

func (u *fakeUploader) Upload(ctx context.Context, objectKey string, r io.Reader, contentType string) error {
	u.keys = append(u.keys, objectKey)
	return u.err
}

func (u *fakeUploader) PublicURL(objectKey string) string {
	return "https://cdn.example.com/avatars/" + objectKey
}

func newTestService(acc *stubAccessor, auth *stubAuthenticator, up Uploader, at time.Time) *Service {
	svc := NewService(acc, auth, up, session.NewNotifier(), zap.NewNop().Sugar())
	svc.now = func() time.Time { return at }
	return svc
}

func TestValidatePassword(t *testing.T) {
	require.NoError(t, ValidatePassword("secret1", "secret1"))
	require.ErrorIs(t, ValidatePassword("short", "short"), ErrPasswordTooShort)
	require.ErrorIs(t, ValidatePassword("secret1", "secret2"), ErrPasswordMismatch)
	// mismatch wins over length
	require.ErrorIs(t, ValidatePassword("abc", "abcd"), ErrPasswordMismatch)
}

func TestUpdatePasswordLocalValidationFirst(t *testing.T) {
	auth := &stubAuthenticator{}
	svc := newTestService(&stubAccessor{}, auth, nil, time.Now())

	err := svc.UpdatePassword(context.Background(), "token", "abc", "abc")
	require.ErrorIs(t, err, ErrPasswordTooShort)
	require.Zero(t, auth.updateCalls)

	require.NoError(t, svc.UpdatePassword(context.Background(), "token", "hunter22", "hunter22"))
	require.Equal(t, 1, auth.updateCalls)
	require.Equal(t, map[string]interface{}{"password": "hunter22"}, auth.lastAttrs)
}

func TestUpdateProfileKeepsAvatarWithoutUpload(t *testing.T) {
	acc := &stubAccessor{}
	svc := newTestService(acc, &stubAuthenticator{}, &fakeUploader{}, time.Now())

	user := &types.User{ID: "user-1", Document: &types.MetadataDocument{
		Username:  "old-name",
		AvatarURL: "https://cdn.example.com/avatars/user-1/123_pic.png",
	}}

	_, err := svc.UpdateProfile(context.Background(), "token", user, "new-name", nil)
	require.NoError(t, err)
	require.Equal(t, 1, acc.writes)
	require.Equal(t, "new-name", acc.lastPatch["username"])
	require.Equal(t, "https://cdn.example.com/avatars/user-1/123_pic.png", acc.lastPatch["avatar_url"])
}

func TestUpdateProfileUploadsNewAvatar(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	acc := &stubAccessor{}
	up := &fakeUploader{}
	svc := newTestService(acc, &stubAuthenticator{}, up, now)

	user := &types.User{ID: "user-1", Document: &types.MetadataDocument{}}
	avatar := &AvatarUpload{Filename: "pic.png", ContentType: "image/png", Reader: strings.NewReader("img")}

	_, err := svc.UpdateProfile(context.Background(), "token", user, "amaka", avatar)
	require.NoError(t, err)
	require.Len(t, up.keys, 1)

	wantKey := fmt.Sprintf("user-1/%d_pic.png", now.UnixMilli())
	require.Equal(t, wantKey, up.keys[0])
	require.Equal(t, "https://cdn.example.com/avatars/"+wantKey, acc.lastPatch["avatar_url"])
}

func TestUpdateProfileUploadFailureAborts(t *testing.T) {
	acc := &stubAccessor{}
	up := &fakeUploader{err: errors.New("bucket unavailable")}
	svc := newTestService(acc, &stubAuthenticator{}, up, time.Now())

	user := &types.User{ID: "user-1", Document: &types.MetadataDocument{Username: "amaka"}}
	avatar := &AvatarUpload{Filename: "pic.png", ContentType: "image/png", Reader: strings.NewReader("img")}

	_, err := svc.UpdateProfile(context.Background(), "token", user, "amaka", avatar)
	require.Error(t, err)
	require.Zero(t, acc.writes)
}

func TestNotifications(t *testing.T) {
	svc := newTestService(&stubAccessor{}, &stubAuthenticator{}, nil, time.Now())

	feed := []types.Notification{
		{ID: "n1", Message: "first"},
		{ID: "n2", Message: "second"},
		{ID: "n3", Message: "third"},
	}
	user := &types.User{ID: "user-1", Document: &types.MetadataDocument{Notifications: feed}}

	got := svc.Notifications(user, 0)
	require.Equal(t, feed, got)
	// stored order is stable across repeated reads
	require.Equal(t, got, svc.Notifications(user, 0))

	require.Len(t, svc.Notifications(user, 2), 2)
	require.Equal(t, "n1", svc.Notifications(user, 2)[0].ID)
	require.Nil(t, svc.Notifications(nil, 5))
}

func TestMarkAllNotificationsRead(t *testing.T) {
	acc := &stubAccessor{}
	svc := newTestService(acc, &stubAuthenticator{}, nil, time.Now())

	user := &types.User{ID: "user-1", Document: &types.MetadataDocument{
		Notifications: []types.Notification{
			{ID: "n1", Message: "first", Read: true},
			{ID: "n2", Message: "second"},
		},
	}}

	_, err := svc.MarkAllNotificationsRead(context.Background(), "token", user)
	require.NoError(t, err)

	marked, ok := acc.lastPatch["notifications"].([]types.Notification)
	require.True(t, ok)
	require.Len(t, marked, 2)
	require.Equal(t, "n1", marked[0].ID)
	require.Equal(t, "n2", marked[1].ID)
	require.True(t, marked[0].Read)
	require.True(t, marked[1].Read)
	// the caller's snapshot is not mutated in place
	require.False(t, user.Document.Notifications[1].Read)
}

func TestMarkAllNotificationsReadEmptyFeed(t *testing.T) {
	acc := &stubAccessor{}
	svc := newTestService(acc, &stubAuthenticator{}, nil, time.Now())

	user := &types.User{ID: "user-1", Document: &types.MetadataDocument{}}
	got, err := svc.MarkAllNotificationsRead(context.Background(), "token", user)
	require.NoError(t, err)
	require.Same(t, user, got)
	require.Zero(t, acc.writes)
}

func TestUpdateNotificationSettings(t *testing.T) {
	acc := &stubAccessor{}
	svc := newTestService(acc, &stubAuthenticator{}, nil, time.Now())

	settings := types.NotificationSettings{ProductUpdates: false, WeeklyDigest: true}
	_, err := svc.UpdateNotificationSettings(context.Background(), "token", &types.User{ID: "user-1"}, settings)
	require.NoError(t, err)
	require.Equal(t, settings, acc.lastPatch["notification_settings"])
}
