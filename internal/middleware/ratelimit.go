package middleware

import (
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimit is a process-wide token bucket refilled at perMinute requests per minute.
func RateLimit(perMinute, burst int, log logrus.FieldLogger) drift.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(perMinute)/60, burst)

	return func(c *drift.Context) {
		if !limiter.Allow() {
			log.WithFields(logrus.Fields{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Warn("rate limit exceeded")
			_ = c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
