package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qybrrlabs/portal/internal/app/service/content"
	"github.com/qybrrlabs/portal/pkg/response"
)

// @Summary      List posts
// @Description  Published posts, newest first; category filters on category title.
// @Tags         Blog
// @Produce      json
// @Param        category query string false "Category title"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/posts [get]
func ApiListPosts(svc *content.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		posts, err := svc.Posts(c.Request.Context(), c.Query("category"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(posts))
	}
}

// @Summary      Get post by slug
// @Tags         Blog
// @Produce      json
// @Param        slug path string true "Post slug"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/posts/{slug} [get]
func ApiGetPost(svc *content.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := svc.PostBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		if post == nil {
			c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeBadRequest, "post not found"))
			return
		}
		c.JSON(http.StatusOK, response.OKT(post))
	}
}

// @Summary      List categories
// @Tags         Blog
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/categories [get]
func ApiListCategories(svc *content.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.Categories(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(categories))
	}
}

// @Summary      RSS feed
// @Description  RSS 2.0 document derived from the post list.
// @Tags         Blog
// @Produce      application/rss+xml
// @Success      200  {string}  string
// @Router       /rss [get]
func ApiRSSFeed(svc *content.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rss, err := svc.Feed(c.Request.Context())
		if err != nil {
			c.String(http.StatusInternalServerError, "Error generating RSS feed")
			return
		}
		c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
	}
}

func RegisterBlogRoutes(r gin.IRouter, svc *content.Service) {
	r.GET("/posts", ApiListPosts(svc))
	r.GET("/posts/:slug", ApiGetPost(svc))
	r.GET("/categories", ApiListCategories(svc))
}
