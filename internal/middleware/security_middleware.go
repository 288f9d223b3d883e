package middleware

import (
	"net/http"
	"strings"

	"alltech-pos/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware checks the bearer token and stashes the claims for the
// handlers behind it.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("isService", claims.IsService)

		c.Next()
	}
}

// RequireRole is a secondary guard that checks for specific permissions.
func RequireRole(allowedRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != allowedRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireService only admits tokens carrying the service claim; user tokens
// are rejected even though they pass the auth check.
func RequireService() gin.HandlerFunc {
	return func(c *gin.Context) {
		isService, exists := c.Get("isService")
		if !exists || isService != true {
			c.JSON(http.StatusForbidden, gin.H{"error": "Service token required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
