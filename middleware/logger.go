package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/madebyaram2024/PPC-CRM-sub000/utils"
)

// Logger records one structured line per request.
func Logger(logger *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"client", c.ClientIP(),
		)
	}
}
