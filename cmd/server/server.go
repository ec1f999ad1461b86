package main

import (
	"context"
	"fmt"

	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/config"
	"codeberg.org/archviz/studio/internal/credential"
	"codeberg.org/archviz/studio/internal/editor"
	"codeberg.org/archviz/studio/internal/events"
	"codeberg.org/archviz/studio/internal/llm"
	"codeberg.org/archviz/studio/internal/logger"
	"codeberg.org/archviz/studio/internal/metrics"
	"codeberg.org/archviz/studio/internal/quota"
	ws "codeberg.org/archviz/studio/internal/websocket"
	"github.com/gin-gonic/gin"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := openRedis(ctx, cfg.RedisURL)
	if err != nil {
		closeStores(st)
		return nil, err
	}

	bus := events.NewBus()
	bus.OnDrop = metrics.RecordEventDropped

	userSvc := users.NewService(st.users, bus)

	// a nil reserver keeps the gate lenient
	var reserver quota.Reserver
	if cfg.QuotaStrict {
		reserver = quota.NewRedisCounterFromClient(redisClient)
		logger.Info("strict quota enabled")
	}

	resolver := credential.NewResolver(config.InjectedAPIKey, st.settings)

	generator := llm.NewGeminiImageClient(llm.GeminiConfig{Model: cfg.GeminiModel})

	editors := editor.NewManager(editor.Deps{
		Generator:   generator,
		Credentials: resolver,
		Admission:   quota.NewGate(userSvc, reserver),
		Usage:       quota.NewService(userSvc),
		Observer:    metrics.EditorObserver{},
		Accounts:    userSvc,
	})
	editors.Follow(bus)

	logger.Info("image generator configured",
		"model", generator.Model(),
		"injected_key", cfg.InjectedAPIKey != "",
	)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &Server{
		db:       st.db,
		redis:    redisClient,
		config:   cfg,
		bus:      bus,
		users:    userSvc,
		settings: st.settings,
		resolver: resolver,
		keys:     credential.NewCookieKeys(cfg.SessionSecret, cfg.Environment == "production"),
		editors:  editors,
		hub:      ws.NewHub(bus, userSvc),
		router:   gin.Default(),
	}

	if err := RegisterRoutes(server.router, server); err != nil {
		server.Close()
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	return server, nil
}

// releases everything NewServer opened
func (s *Server) Close() {
	s.editors.Stop()

	if s.redis != nil {
		s.redis.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	}

	if s.db != nil {
		s.db.Close()
	}
}

func closeStores(st *stores) {
	if st.db != nil {
		st.db.Close()
	}
}
