package middleware

import (
	"time"

	"stocks-portfolio/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id, stores a request scoped logger
// in the request context and logs the outcome.
func RequestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		entry := logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), entry))

		c.Next()

		fields := logrus.Fields{
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if id, ok := CurrentUserID(c); ok {
			fields["user_id"] = id
		}
		done := entry.WithFields(fields)

		switch status := c.Writer.Status(); {
		case status >= 500:
			done.Error("request failed")
		case len(c.Errors) > 0:
			done.WithField("errors", c.Errors.String()).Warn("request completed with errors")
		default:
			done.Info("request completed")
		}
	}
}
