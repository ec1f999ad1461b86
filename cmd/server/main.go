package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/archviz/studio/internal/config"
	"codeberg.org/archviz/studio/internal/logger"
)

// @title Archviz Studio API
// @version 1.0
// @description Architectural visualization studio backed by an image generation model
// @description
// @description Features:
// @description - Render, restyle and edit architectural images from catalog picks and free text
// @description - Per-user daily generation quotas managed by an operator
// @description - Realtime user record updates over WebSockets

// @contact.name API Support
// @contact.url https://codeberg.org/archviz/studio

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authenticated requests. Format: Bearer {token}

const shutdownTimeout = 10 * time.Second

func main() {
	logger.Info("starting archviz studio server")

	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	// create server with all dependencies
	srv, err := NewServer(cfg)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     srv.router,
		ReadTimeout: 30 * time.Second,
		// generation requests hold the connection for up to the generation timeout
		WriteTimeout: cfg.GenerationTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port, "store", cfg.Store)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// start websocket hub
	go srv.hub.Run()

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// notify websocket clients and close connections first
	srv.hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// stops the editor cleanup loop, then closes redis and the database
	srv.Close()

	logger.Info("server stopped")
}
