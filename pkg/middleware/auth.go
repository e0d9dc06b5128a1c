package middleware

import (
	"net/http"
	"strings"

	"event-swipe/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header is required")
			return
		}

		if !authenticate(c, jwtService, authHeader) {
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware lets anonymous requests through but still rejects
// a token that is present and invalid.
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
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		unauthorized(c, "Invalid authorization header format")
		return false
	}

	claims, err := jwtService.ValidateToken(parts[1])
	if err != nil {
		unauthorized(c, "Invalid or expired token")
		return false
	}

	c.Set("user_id", claims.UserID)
	c.Set("user_role", claims.Role)
	return true
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": message})
	c.Abort()
}
