package middleware

import (
	"time"

	"event-swipe/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	zl := log.Zap()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if userID := c.GetString("user_id"); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}

		switch {
		case c.Writer.Status() >= 500:
			zl.Error("request", fields...)
		case c.Writer.Status() >= 400:
			zl.Warn("request", fields...)
		default:
			zl.Info("request", fields...)
		}
	}
}
