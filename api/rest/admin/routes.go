package admin

import (
	"time"

	"codeberg.org/archviz/studio/internal/auth"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, deps Deps) {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	admin := router.Group("/admin")
	admin.Use(auth.AdminAuthMiddleware())

	admin.GET("/users", ListUsers(deps))
	admin.GET("/users/stats", GetStats(deps))
	admin.POST("/users", CreateUser(deps))
	admin.PUT("/users/:id/active", SetActive(deps))
	admin.PUT("/users/:id/password", ResetPassword(deps))
	admin.PUT("/users/:id/quota", UpdateQuota(deps))
	admin.DELETE("/users/:id", DeleteUser(deps))

	admin.GET("/settings/api-key", GetAPIKey(deps))
	admin.PUT("/settings/api-key", SetAPIKey(deps))
	admin.DELETE("/settings/api-key", ClearAPIKey(deps))
}
