package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"kyc-backend/internal/shared/telemetry"
)

// Context keys handlers may set for the request log line.
const (
	DocumentKindsKey      = "documentKinds"
	VerificationStatusKey = "verificationStatus"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		kinds, _ := c.Get(DocumentKindsKey)
		verification := c.GetString(VerificationStatusKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":          RequestIDFromContext(c),
			"method":              c.Request.Method,
			"path":                c.Request.URL.Path,
			"status":              c.Writer.Status(),
			"duration_ms":         float64(latency.Microseconds()) / 1000.0,
			"user_id":             UserIDFromContext(c),
			"role":                UserRoleFromContext(c),
			"document_kinds":      kinds,
			"verification_status": verification,
			"client_ip":           c.ClientIP(),
			"user_agent":          c.Request.UserAgent(),
		})
	}
}
