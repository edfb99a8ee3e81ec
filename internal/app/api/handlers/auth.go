package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/qybrrlabs/portal/internal/app/api/middleware"
	"github.com/qybrrlabs/portal/internal/app/service/account"
	"github.com/qybrrlabs/portal/internal/app/service/session"
	"github.com/qybrrlabs/portal/internal/app/service/trial"
	"github.com/qybrrlabs/portal/pkg/response"
)

type signUpReq struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Username        string `json:"username"`
}

type signInReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// @Summary      Sign up
// @Description  Creates an account; the metadata document is seeded with trialing subscriptions for the whole catalog.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body handlers.signUpReq true "Sign-up request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/auth/signup [post]
func ApiSignUp(auth session.Authenticator, trials *trial.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signUpReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.Email == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "email is required"))
			return
		}
		// validation failures never reach the provider
		if err := account.ValidatePassword(req.Password, req.ConfirmPassword); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		user, err := auth.SignUp(c.Request.Context(), req.Email, req.Password, trials.SignupDocument(req.Username))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(user))
	}
}

// @Summary      Sign in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body handlers.signInReq true "Sign-in request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/auth/login [post]
func ApiSignIn(auth session.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signInReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		sess, err := auth.SignIn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sess))
	}
}

// @Summary      Refresh session
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body handlers.refreshReq true "Refresh request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/auth/refresh [post]
func ApiRefresh(auth session.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		sess, err := auth.Refresh(c.Request.Context(), req.AccessToken, req.RefreshToken)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sess))
	}
}

// @Summary      Sign out
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/auth/logout [post]
func ApiSignOut(auth session.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.SignOut(c.Request.Context(), mw.AccessToken(c)); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(map[string]string{"status": "signed_out"}))
	}
}

func RegisterAuthRoutes(r gin.IRouter, auth session.Authenticator, trials *trial.Service) {
	r.POST("/signup", ApiSignUp(auth, trials))
	r.POST("/login", ApiSignIn(auth))
	r.POST("/refresh", ApiRefresh(auth))
}
