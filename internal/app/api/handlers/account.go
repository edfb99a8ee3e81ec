package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	mw "github.com/qybrrlabs/portal/internal/app/api/middleware"
	"github.com/qybrrlabs/portal/internal/app/service/account"
	"github.com/qybrrlabs/portal/internal/app/service/session"
	"github.com/qybrrlabs/portal/internal/app/service/trial"
	"github.com/qybrrlabs/portal/pkg/response"
	"github.com/qybrrlabs/portal/pkg/types"
)

type passwordReq struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// @Summary      Current account
// @Description  Returns the resolved user and its normalized metadata document.
// @Tags         Account
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/account [get]
func ApiGetAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, response.OKT(mw.CurrentUser(c)))
	}
}

// @Summary      Update profile
// @Description  Multipart form: username plus an optional new avatar. The avatar uploads before the metadata write; an upload failure leaves the document unmodified.
// @Tags         Account
// @Accept       multipart/form-data
// @Produce      json
// @Param        username formData string false "Display name"
// @Param        avatar   formData file   false "New avatar image"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/account/profile [put]
func ApiUpdateProfile(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mw.CurrentUser(c)
		username := c.PostForm("username")

		var avatar *account.AvatarUpload
		if fileHeader, err := c.FormFile("avatar"); err == nil && fileHeader != nil {
			f, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			defer f.Close()
			avatar = &account.AvatarUpload{
				Filename:    fileHeader.Filename,
				ContentType: fileHeader.Header.Get("Content-Type"),
				Reader:      f,
			}
		}

		updated, err := svc.UpdateProfile(c.Request.Context(), mw.AccessToken(c), user, username, avatar)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(updated))
	}
}

// @Summary      Change password
// @Tags         Account
// @Accept       json
// @Produce      json
// @Param        request body handlers.passwordReq true "Password change request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/account/password [put]
func ApiUpdatePassword(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req passwordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		err := svc.UpdatePassword(c.Request.Context(), mw.AccessToken(c), req.Password, req.ConfirmPassword)
		if err != nil {
			if errors.Is(err, account.ErrPasswordTooShort) || errors.Is(err, account.ErrPasswordMismatch) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(map[string]string{"status": "password_updated"}))
	}
}

// @Summary      List subscriptions
// @Tags         Account
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/account/subscriptions [get]
func ApiListSubscriptions(trials *trial.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, response.OKT(trials.Subscriptions(mw.CurrentUser(c))))
	}
}

// @Summary      Claim a product trial
// @Description  Appends a trialing subscription and its notification to the metadata document. Rejected when a subscription for the product already exists.
// @Tags         Account
// @Produce      json
// @Param        productID path string true "Product ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/account/trials/{productID} [post]
func ApiClaimTrial(trials *trial.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		updated, err := trials.ClaimTrial(c.Request.Context(), mw.AccessToken(c), mw.CurrentUser(c), c.Param("productID"))
		if err != nil {
			if errors.Is(err, trial.ErrTrialAlreadyActive) || errors.Is(err, trial.ErrProductNotFound) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(updated))
	}
}

// @Summary      Notification feed
// @Description  Returns stored notifications in insertion order; limit caps the count.
// @Tags         Account
// @Produce      json
// @Param        limit query int false "Maximum entries"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/account/notifications [get]
func ApiListNotifications(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid limit"))
				return
			}
			limit = n
		}
		c.JSON(http.StatusOK, response.OKT(svc.Notifications(mw.CurrentUser(c), limit)))
	}
}

// @Summary      Mark all notifications read
// @Tags         Account
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/account/notifications/read [put]
func ApiMarkNotificationsRead(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		updated, err := svc.MarkAllNotificationsRead(c.Request.Context(), mw.AccessToken(c), mw.CurrentUser(c))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(updated))
	}
}

// @Summary      Update notification settings
// @Tags         Account
// @Accept       json
// @Produce      json
// @Param        request body types.NotificationSettings true "Settings"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/account/notification-settings [put]
func ApiUpdateNotificationSettings(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings types.NotificationSettings
		if err := c.ShouldBindJSON(&settings); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		updated, err := svc.UpdateNotificationSettings(c.Request.Context(), mw.AccessToken(c), mw.CurrentUser(c), settings)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(updated))
	}
}

func RegisterAccountRoutes(r gin.IRouter, accounts *account.Service, trials *trial.Service, notifier *session.Notifier, auth session.Authenticator) {
	r.GET("", ApiGetAccount())
	r.PUT("/profile", ApiUpdateProfile(accounts))
	r.PUT("/password", ApiUpdatePassword(accounts))
	r.GET("/subscriptions", ApiListSubscriptions(trials))
	r.POST("/trials/:productID", ApiClaimTrial(trials))
	r.GET("/notifications", ApiListNotifications(accounts))
	r.PUT("/notifications/read", ApiMarkNotificationsRead(accounts))
	r.PUT("/notification-settings", ApiUpdateNotificationSettings(accounts))
	r.GET("/events", ApiAccountEvents(notifier))
	r.POST("/logout", ApiSignOut(auth))
}
