package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/you/allospace/internal/logging"
)

// RequestLogger writes one structured line per request
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
			"origin", c.GetHeader("Origin"),
		)
	}
}
