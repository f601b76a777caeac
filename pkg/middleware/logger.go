package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger writes one structured line per request
func Logger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		kv := []interface{}{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"client_ip", c.ClientIP(),
			"latency", time.Since(start),
			"request_id", c.GetString(RequestIDKey),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Errorw("request", kv...)
		case status >= 400:
			log.Warnw("request", kv...)
		default:
			log.Infow("request", kv...)
		}
	}
}
