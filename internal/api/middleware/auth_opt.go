package middleware

import (
	"Petrel/internal/pkg/security"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware resolves the viewer when a token is present; an
// absent or broken token means an anonymous read, not a rejection.
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Set("user_id", "")
			c.Next()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := security.ValidateToken(token)

		if err != nil {
			c.Set("user_id", "")
		} else {
			c.Set("user_id", claims.UserID)
		}

		c.Next()
	}
}
