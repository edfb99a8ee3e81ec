package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/qybrrlabs/portal/pkg/logctx"
	"github.com/qybrrlabs/portal/pkg/tool"
)

// TraceMiddleware assigns every request a trace id, honoring an incoming
// X-Request-ID. The id lands on gin.Context and the request's
// context.Context so downstream log enrichment sees it either way.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Request-ID")
		if traceID == "" {
			traceID = tool.GenerateUUIDV7()
		}

		c.Set(logctx.KeyTraceID, traceID)
		ctx := context.WithValue(c.Request.Context(), logctx.KeyTraceID, traceID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
