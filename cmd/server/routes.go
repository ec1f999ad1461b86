package main

import (
	"time"

	"codeberg.org/archviz/studio/api/rest/admin"
	"codeberg.org/archviz/studio/api/rest/auth"
	"codeberg.org/archviz/studio/api/rest/editor"
	"codeberg.org/archviz/studio/api/rest/health"
	"codeberg.org/archviz/studio/api/websocket"
	internalauth "codeberg.org/archviz/studio/internal/auth"
	"codeberg.org/archviz/studio/internal/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	router.Use(metrics.Middleware())
	router.Use(CORSMiddleware(server.config.AllowedOrigins))

	router.GET("/health", health.Handler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	generateLimit, err := newRateLimiter(server.config.GenerateRateLimit, "generate", server.redis, userOrIPKey)
	if err != nil {
		return err
	}

	loginLimit, err := newRateLimiter(loginRateLimit, "login", server.redis, ipKey)
	if err != nil {
		return err
	}

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		auth.RegisterRoutes(v1, server.users, internalauth.AdminCredentials{
			Username:     server.config.AdminUsername,
			PasswordHash: server.config.AdminPasswordHash,
		}, loginLimit)

		admin.RegisterRoutes(v1, admin.Deps{
			Users:    server.users,
			Settings: server.settings,
			Keys:     server.resolver,
		})

		editor.RegisterRoutes(v1, editor.Deps{
			Sessions:          server.editors,
			Keys:              server.keys,
			Credentials:       server.resolver,
			Accounts:          server.users,
			GenerationTimeout: server.config.GenerationTimeout,
		}, generateLimit)

		websocket.RegisterRoutes(v1, server.hub)
	}

	return nil
}

// allows the configured browser origins; with none configured every origin is allowed
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}
