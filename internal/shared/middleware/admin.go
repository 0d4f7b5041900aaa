package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"lovewall-backend/internal/shared/response"
	"lovewall-backend/pkg/jwt"
)

// AdminAuth guards the moderation surface. Expects "Authorization: Bearer
// <token>" signed by pkg/jwt with the admin role.
func AdminAuth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := manager.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		if claims.Role != "admin" {
			response.Forbidden(c, "admin role required")
			c.Abort()
			return
		}

		c.Set("admin", claims.Name)
		c.Next()
	}
}
