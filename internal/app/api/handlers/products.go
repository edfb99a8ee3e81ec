package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/qybrrlabs/portal/internal/app/api/middleware"
	"github.com/qybrrlabs/portal/internal/app/service/trial"
	"github.com/qybrrlabs/portal/pkg/response"
	"github.com/qybrrlabs/portal/pkg/types"
)

// @Summary      Product catalog
// @Description  Static catalog; entries carry the caller's trial state when a valid token is supplied.
// @Tags         Products
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/products [get]
func ApiListProducts(trials *trial.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc *types.MetadataDocument
		if user := mw.CurrentUser(c); user != nil {
			doc = user.Document
		}
		c.JSON(http.StatusOK, response.OKT(trials.Products(doc)))
	}
}

func RegisterProductRoutes(r gin.IRouter, trials *trial.Service) {
	r.GET("/products", ApiListProducts(trials))
}
