package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/playmatatu/pong-server/internal/admin"
	"github.com/playmatatu/pong-server/internal/config"
)

// AdminAuth requires a valid admin session JWT as a Bearer token. Without an
// ADMIN_TOKEN_HASH no session could have been issued, so every request is
// refused regardless of the signature.
func AdminAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.AdminTokenHash == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Admin access not configured"})
			return
		}
		auth := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(auth, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		if err := admin.ValidateSession(cfg.JWTSecret, token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}
