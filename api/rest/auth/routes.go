package auth

import (
	"codeberg.org/archviz/studio/internal/auth"
	"github.com/gin-gonic/gin"
)

// registers all authentication routes; loginLimit may be nil
func RegisterRoutes(router *gin.RouterGroup, accounts Accounts, admin auth.AdminCredentials, loginLimit gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		login := []gin.HandlerFunc{LoginHandler(accounts, admin)}
		if loginLimit != nil {
			login = append([]gin.HandlerFunc{loginLimit}, login...)
		}

		authGroup.POST("/login", login...)
		authGroup.GET("/me", auth.AuthMiddleware(), GetCurrentUserHandler(accounts))
	}
}
