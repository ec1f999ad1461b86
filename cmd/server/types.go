package main

import (
	"codeberg.org/archviz/studio/archviz/settings"
	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/config"
	"codeberg.org/archviz/studio/internal/credential"
	"codeberg.org/archviz/studio/internal/editor"
	"codeberg.org/archviz/studio/internal/events"
	ws "codeberg.org/archviz/studio/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// holds all dependencies and state for the API server
type Server struct {
	db       *pgxpool.Pool // nil with STORE=memory
	redis    *redis.Client // nil without REDIS_URL
	config   *config.Config
	bus      *events.Bus
	users    *users.Service
	settings settings.Store
	resolver *credential.Resolver
	keys     *credential.CookieKeys
	editors  *editor.Manager
	hub      *ws.Hub
	router   *gin.Engine
}

// the record stores behind the server
type stores struct {
	users    users.Store
	settings settings.Store
	db       *pgxpool.Pool
}
