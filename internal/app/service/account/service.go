package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/qybrrlabs/portal/internal/app/service/session"
	"github.com/qybrrlabs/portal/pkg/logctx"
	"github.com/qybrrlabs/portal/pkg/types"
)

const MinPasswordLength = 6

var (
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// ValidatePassword applies the local password rules. It runs before any
// provider call so a bad password never leaves the process.
func ValidatePassword(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// Uploader is the object storage provider contract used for avatars.
type Uploader interface {
	Upload(ctx context.Context, objectKey string, r io.Reader, contentType string) error
	PublicURL(objectKey string) string
}

// AvatarUpload is a newly chosen avatar file, not yet uploaded.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// Service implements the account operations: profile edits, password
// changes, notification preferences and the notification feed. All durable
// state lives in the provider-held metadata document.
type Service struct {
	acc     DocumentAccessor
	auth    session.Authenticator
	uploads Uploader
	notif   *session.Notifier
	log     *zap.SugaredLogger
	now     func() time.Time
}

func NewService(acc DocumentAccessor, auth session.Authenticator, uploads Uploader, notif *session.Notifier, log *zap.SugaredLogger) *Service {
	return &Service{acc: acc, auth: auth, uploads: uploads, notif: notif, log: log, now: time.Now}
}

// UpdateProfile persists username and avatar_url. When a new avatar was
// chosen it is uploaded first, under a key namespaced by user ID and a
// timestamp plus the original filename; an upload failure aborts the whole
// submit and the document stays unmodified. When no file was chosen the
// previously persisted avatar_url round-trips unchanged.
func (s *Service) UpdateProfile(ctx context.Context, accessToken string, user *types.User, username string, avatar *AvatarUpload) (*types.User, error) {
	if user == nil {
		return nil, session.ErrUnauthenticated
	}

	avatarURL := ""
	if user.Document != nil {
		avatarURL = user.Document.AvatarURL
	}

	if avatar != nil {
		objectKey := fmt.Sprintf("%s/%d_%s", user.ID, s.now().UnixMilli(), avatar.Filename)
		if err := s.uploads.Upload(ctx, objectKey, avatar.Reader, avatar.ContentType); err != nil {
			// A failed upload may have left an orphaned object behind;
			// there is no compensating delete.
			return nil, fmt.Errorf("failed to upload avatar: %w", err)
		}
		avatarURL = s.uploads.PublicURL(objectKey)
	}

	updated, err := s.acc.Write(ctx, accessToken, map[string]interface{}{
		"username":   username,
		"avatar_url": avatarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	logctx.FromCtx(ctx, s.log).Infow("profile updated", "user_id", user.ID)
	s.notif.UserUpdated(updated)
	return updated, nil
}

// UpdatePassword validates locally, then asks the provider to set the new
// password. Validation failures never reach the provider.
func (s *Service) UpdatePassword(ctx context.Context, accessToken, password, confirm string) error {
	if err := ValidatePassword(password, confirm); err != nil {
		return err
	}
	if _, err := s.auth.UpdateUser(ctx, accessToken, map[string]interface{}{"password": password}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateNotificationSettings replaces the whole preference block.
func (s *Service) UpdateNotificationSettings(ctx context.Context, accessToken string, user *types.User, settings types.NotificationSettings) (*types.User, error) {
	if user == nil {
		return nil, session.ErrUnauthenticated
	}
	updated, err := s.acc.Write(ctx, accessToken, map[string]interface{}{
		"notification_settings": settings,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save notification settings: %w", err)
	}
	s.notif.UserUpdated(updated)
	return updated, nil
}

// Notifications returns the stored feed in insertion order. limit <= 0 means
// the whole sequence. No sorting happens here: rendering the same stored
// sequence twice must produce the same ordered output.
func (s *Service) Notifications(user *types.User, limit int) []types.Notification {
	if user == nil || user.Document == nil {
		return nil
	}
	feed := user.Document.Notifications
	if limit > 0 && len(feed) > limit {
		feed = feed[:limit]
	}
	return feed
}

// MarkAllNotificationsRead rewrites the full notifications array with every
// entry's read flag set. Order and all other fields are preserved.
func (s *Service) MarkAllNotificationsRead(ctx context.Context, accessToken string, user *types.User) (*types.User, error) {
	if user == nil {
		return nil, session.ErrUnauthenticated
	}
	if user.Document == nil || len(user.Document.Notifications) == 0 {
		return user, nil
	}

	marked := make([]types.Notification, len(user.Document.Notifications))
	copy(marked, user.Document.Notifications)
	for i := range marked {
		marked[i].Read = true
	}

	updated, err := s.acc.Write(ctx, accessToken, map[string]interface{}{
		"notifications": marked,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	s.notif.UserUpdated(updated)
	return updated, nil
}
