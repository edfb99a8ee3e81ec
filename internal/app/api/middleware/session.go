package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qybrrlabs/portal/internal/app/service/session"
	"github.com/qybrrlabs/portal/pkg/logctx"
	"github.com/qybrrlabs/portal/pkg/types"
)

const (
	ctxKeyUser        = "sessionUser"
	ctxKeyAccessToken = "accessToken"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// SessionMiddleware is the account-route gatekeeper: it resolves the current
// user from the bearer token exactly once per request and redirects
// unauthenticated visitors to loginPath. Any resolution error is treated
// identically to "no user".
func SessionMiddleware(svc *session.Service, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.Resolve(c.Request.Context(), bearerToken(c))
		if err != nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		attachUser(c, user, bearerToken(c))
		c.Next()
	}
}

// OptionalSessionMiddleware resolves the user when a valid token is present
// and stays silent otherwise, for public routes that personalize output.
func OptionalSessionMiddleware(svc *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if user, err := svc.Resolve(c.Request.Context(), token); err == nil {
				attachUser(c, user, token)
			}
		}
		c.Next()
	}
}

func attachUser(c *gin.Context, user *types.User, token string) {
	c.Set(ctxKeyUser, user)
	c.Set(ctxKeyAccessToken, token)
	// mirror for logctx enrichment
	ctx := context.WithValue(c.Request.Context(), logctx.KeyUserID, user.ID)
	c.Request = c.Request.WithContext(ctx)
}

// CurrentUser returns the resolved user snapshot, or nil when the request is
// anonymous.
func CurrentUser(c *gin.Context) *types.User {
	if v, ok := c.Get(ctxKeyUser); ok {
		if user, ok := v.(*types.User); ok {
			return user
		}
	}
	return nil
}

// AccessToken returns the bearer token the current user was resolved from.
func AccessToken(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyAccessToken); ok {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}
