package handlers

import (
	"time"

	"github.com/qybrrlabs/portal/pkg/response"
	"github.com/qybrrlabs/portal/pkg/types"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespAccount wraps the current user snapshot in the standard envelope.
type RespAccount struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    SwaggerUser              `json:"data"`
}

// SwaggerUser is a simplified view of types.User for documentation purposes.
type SwaggerUser struct {
	ID       string                  `json:"id"`
	Email    string                  `json:"email"`
	Metadata SwaggerMetadataDocument `json:"metadata"`
}

// SwaggerMetadataDocument mirrors types.MetadataDocument.
type SwaggerMetadataDocument struct {
	Username             string                      `json:"username,omitempty"`
	AvatarURL            string                      `json:"avatar_url,omitempty"`
	NotificationSettings *types.NotificationSettings `json:"notification_settings,omitempty"`
	Subscriptions        []SwaggerSubscription       `json:"subscriptions,omitempty"`
	Notifications        []SwaggerNotification       `json:"notifications,omitempty"`
}

type SwaggerSubscription struct {
	ProductID   string     `json:"productId"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	TrialEndsAt *time.Time `json:"trialEndsAt,omitempty"`
}

type SwaggerNotification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
