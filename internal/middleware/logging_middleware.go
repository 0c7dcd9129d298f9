package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LoggingMiddleware logs basic request/response details and injects a request_id into context.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := uuid.New().String()[:8]
		c.Set("request_id", requestID)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		ev := log.Info()
		if status >= 500 {
			ev = log.Warn()
		}
		ev.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Str("session", shortID(c.GetString(SessionIDKey))).
			Msg("HTTP Request")
	}
}

// shortID trims a session ID for logging so full IDs never reach the logs.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
