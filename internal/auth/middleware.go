package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"codeberg.org/archviz/studio/internal/errors"
)

// validates JWT tokens and adds user info to context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			errors.Unauthorized(c, "authorization header required")
			c.Abort()
			return
		}

		claims, err := ValidateJWT(token)
		if err != nil {
			errors.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		setClaims(c, claims)

		c.Next()
	}
}

// requires a valid token carrying the admin flag
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			errors.Unauthorized(c, "authorization header required")
			c.Abort()
			return
		}

		claims, err := ValidateJWT(token)
		if err != nil {
			errors.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		if !claims.IsAdmin {
			errors.Forbidden(c, "admin access required")
			c.Abort()
			return
		}

		setClaims(c, claims)

		c.Next()
	}
}

// validates JWT if present but doesn't require it
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := ValidateJWT(token); err == nil {
				setClaims(c, claims)
			}
		}

		c.Next()
	}
}

// extracts user_id from context after AuthMiddleware
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(ContextUserID)
	return userID, userID != ""
}

func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ContextIsAdmin)
}

func GetUsername(c *gin.Context) string {
	return c.GetString(ContextUsername)
}

func setClaims(c *gin.Context, claims *Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextIsAdmin, claims.IsAdmin)
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}
