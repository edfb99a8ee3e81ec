package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qybrrlabs/portal/internal/app/service/newsletter"
)

type subscribeReq struct {
	Email string `json:"email"`
}

// subscribeResp is the fixed public contract of the subscribe endpoint:
// a bare message with 200/400/409/500, not the generic envelope.
type subscribeResp struct {
	Message string `json:"message"`
}

// @Summary      Newsletter subscribe
// @Description  Adds the email to the mailing list and best-effort sends a welcome email.
// @Tags         Newsletter
// @Accept       json
// @Produce      json
// @Param        request body handlers.subscribeReq true "Subscribe request"
// @Success      200  {object}  handlers.subscribeResp
// @Failure      400  {object}  handlers.subscribeResp
// @Failure      409  {object}  handlers.subscribeResp
// @Failure      500  {object}  handlers.subscribeResp
// @Router       /api/subscribe [post]
func ApiSubscribe(svc *newsletter.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subscribeReq
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
			c.JSON(http.StatusBadRequest, subscribeResp{Message: "Email is required."})
			return
		}

		if err := svc.Subscribe(c.Request.Context(), req.Email); err != nil {
			if errors.Is(err, newsletter.ErrMemberExists) {
				c.JSON(http.StatusConflict, subscribeResp{Message: "This email is already subscribed."})
				return
			}
			c.JSON(http.StatusInternalServerError, subscribeResp{Message: err.Error()})
			return
		}
		c.JSON(http.StatusOK, subscribeResp{Message: "Successfully subscribed! Welcome aboard."})
	}
}

func RegisterNewsletterRoutes(r gin.IRouter, svc *newsletter.Service) {
	r.POST("/subscribe", ApiSubscribe(svc))
}
