package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"donor-relay/pkg/logging"
)

// RequestLogger tags the request context with a correlation ID and logs
// one line per request once it completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := logging.WithCorrelationID(c.Request.Context(), logging.NewCorrelationID())
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		slog.InfoContext(ctx, "Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
