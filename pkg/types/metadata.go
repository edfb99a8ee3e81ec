package types

import (
	"encoding/json"
	"fmt"
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusActive   SubscriptionStatus = "active"
)

// Subscription is a claimed trial or active product entitlement stored inside
// the user's metadata document. At most one entry per ProductID is expected,
// enforced by the claim path rather than by the provider.
type Subscription struct {
	ProductID   string             `json:"productId"`
	Name        string             `json:"name"`
	Status      SubscriptionStatus `json:"status"`
	TrialEndsAt *time.Time         `json:"trialEndsAt,omitempty"`
}

type NotificationType string

const (
	NotificationTypeInfo NotificationType = "info"
)

// Notification is a feed entry stored inside the metadata document.
// IDs are caller-generated, by convention "<kind>-<productId>-<epochMillis>".
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

type NotificationSettings struct {
	ProductUpdates bool `json:"product_updates"`
	WeeklyDigest   bool `json:"weekly_digest"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{ProductUpdates: true, WeeklyDigest: false}
}

// MetadataDocument is the typed view of the per-user metadata blob held by
// the authentication provider. The provider merges writes at the top level
// only, so callers mutating an array field must always send the whole array.
type MetadataDocument struct {
	Username             string                `json:"username,omitempty"`
	AvatarURL            string                `json:"avatar_url,omitempty"`
	NotificationSettings *NotificationSettings `json:"notification_settings,omitempty"`
	Subscriptions        []Subscription        `json:"subscriptions,omitempty"`
	Notifications        []Notification        `json:"notifications,omitempty"`
}

// Normalize applies defaults for absent fields. It runs on every read so
// documents written by older clients keep a stable shape.
func (d *MetadataDocument) Normalize() {
	if d.NotificationSettings == nil {
		s := DefaultNotificationSettings()
		d.NotificationSettings = &s
	}
}

// DocumentFromMetadata decodes the provider's free-form metadata map into a
// typed document and normalizes it. Unknown keys are dropped.
func DocumentFromMetadata(raw map[string]interface{}) (*MetadataDocument, error) {
	doc := &MetadataDocument{}
	if len(raw) > 0 {
		buf, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to encode metadata: %w", err)
		}
		if err := json.Unmarshal(buf, doc); err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
	}
	doc.Normalize()
	return doc, nil
}

// User is the local snapshot of the provider-owned user record. The provider
// keeps the canonical copy; snapshots are replaced wholesale after each
// resolution or echoed write.
type User struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Document *MetadataDocument `json:"metadata"`
}
