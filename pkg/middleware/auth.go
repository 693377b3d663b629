package middleware

import (
	"net/http"
	"strings"

	"readverse/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid bearer token. The claimed role is stored
// for logging only; authorization decisions use the resolved entitlement.
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		if !authenticate(c, jwtService, authHeader) {
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware lets anonymous requests through as guests but still
// rejects a malformed or forged token.
func OptionalAuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		if !authenticate(c, jwtService, authHeader) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, jwtService *jwt.Service, authHeader string) bool {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
		c.Abort()
		return false
	}

	claims, err := jwtService.ValidateToken(parts[1])
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		c.Abort()
		return false
	}

	c.Set("user_id", claims.UserID)
	c.Set("claimed_role", claims.Role)
	return true
}
