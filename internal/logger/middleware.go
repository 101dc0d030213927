package logger

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/gin-gonic/gin"
)

// Gin returns a middleware that tags every request with a random request ID,
// puts the request-scoped logger into the request context and logs the
// outcome after the handler chain finishes.
func Gin(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := log.With(
			"reqID", rand.Uint64(),
			"from", c.ClientIP(),
			"method", c.Request.Method,
			"url", c.Request.URL.String(),
		)
		log.Debug("request received")

		ctx := Context(c.Request.Context(), log)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		log.Info("request handled",
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
