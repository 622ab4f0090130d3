package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders adds browser security headers. The API serves JSON and
// event streams only, never markup, so the content policy can stay strict.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'")
		c.Header("Server", "Restaurant API")
		c.Next()
	}
}
