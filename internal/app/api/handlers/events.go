package handlers

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	mw "github.com/qybrrlabs/portal/internal/app/api/middleware"
	"github.com/qybrrlabs/portal/internal/app/service/session"
)

// @Summary      Account event stream
// @Description  Server-sent events; emits user_updated payloads when this user's record changes in-process.
// @Tags         Account
// @Produce      text/event-stream
// @Success      200
// @Router       /api/v1/account/events [get]
func ApiAccountEvents(notifier *session.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mw.CurrentUser(c)

		id, events := notifier.Subscribe(user.ID)
		// released on every exit path, including client disconnect
		defer notifier.Unsubscribe(id)

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		c.Stream(func(w io.Writer) bool {
			select {
			case ev, ok := <-events:
				if !ok {
					return false
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					return true
				}
				c.SSEvent(ev.Type, string(payload))
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
