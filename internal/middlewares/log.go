package middlewares

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// LogMiddleware logs every request through slog.
func LogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		slog.Debug("Handling request", "method", c.Request.Method, "path", path)

		c.Next()

		elapsed := time.Since(start)
		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		} else if c.Writer.Status() >= 400 {
			level = slog.LevelWarn
		}
		slog.Log(c.Request.Context(), level, "Finish handling request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"time", elapsed,
			"ip", c.ClientIP())
	}
}
