// internal/interfaces/http/middleware/logger.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var quietPaths = map[string]bool{"/health": true, "/ready": true}

// Logger writes one logrus entry per request once the handler chain returns.
// Health and readiness checks are not logged.
func Logger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if quietPaths[c.Request.URL.Path] {
			return
		}

		status := c.Writer.Status()
		fields := logrus.Fields{
			"request_id":    c.GetString(RequestIDKey),
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"route":         c.FullPath(),
			"status_code":   status,
			"latency_ms":    time.Since(start).Milliseconds(),
			"client_ip":     c.ClientIP(),
			"response_size": c.Writer.Size(),
		}
		if userID := c.GetString("user_id"); userID != "" {
			fields["user_id"] = userID
		}
		if key := c.Writer.Header().Get("Idempotency-Key"); key != "" {
			fields["checkout_key"] = key
		}
		if len(c.Errors) > 0 {
			fields["error"] = c.Errors.String()
		}

		entry := logger.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("❌ Request failed")
		case status >= 400:
			entry.Warn("⚠️ Request rejected")
		default:
			entry.Info("Request served")
		}
	}
}
