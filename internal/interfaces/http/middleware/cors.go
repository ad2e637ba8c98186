package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"karnex/internal/shared/constants"
)

var (
	corsAllowHeaders = strings.Join([]string{
		"Content-Type", "Accept", "Origin", "Cache-Control", "X-Requested-With",
		constants.HeaderAuthorization, constants.HeaderXRequestID,
	}, ", ")

	// Admission headers must be exposed or browsers hide them from the front-end.
	corsExposeHeaders = strings.Join([]string{
		"Content-Length", constants.HeaderXRequestID, constants.HeaderRetryAfter,
		constants.HeaderRateLimitLimit, constants.HeaderRateLimitRemaining,
		constants.HeaderRateLimitReset, constants.HeaderQuotaRemaining,
	}, ", ")
)

// CORS allows the listed front-end origins only.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" && slices.Contains(allowedOrigins, origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, OPTIONS")
		c.Header("Access-Control-Expose-Headers", corsExposeHeaders)
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SecurityHeaders sets the usual hardening headers. The swagger UI relies on
// inline scripts, so it gets a looser CSP.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if strings.HasPrefix(c.Request.URL.Path, "/swagger/") {
			c.Header("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		} else {
			c.Header("Content-Security-Policy", "default-src 'self'")
		}

		c.Next()
	}
}
