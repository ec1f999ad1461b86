package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/archviz/studio/archviz/settings"
	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/config"
	"codeberg.org/archviz/studio/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// picks the record stores named by STORE
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("using in-memory stores, records are lost on restart")

		return &stores{
			users:    users.NewMemoryStore(),
			settings: settings.NewMemoryStore(),
		}, nil
	}

	db, err := openPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	userRepo := users.NewRepository(db)
	if err := userRepo.Initialize(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize users table: %w", err)
	}

	settingsRepo := settings.NewRepository(db)
	if err := settingsRepo.Initialize(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize settings table: %w", err)
	}

	return &stores{users: userRepo, settings: settingsRepo, db: db}, nil
}

func openPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// hosted poolers hand out few connections, keep ours small
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// pgbouncer in transaction mode does not support prepared statements
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("connected to postgres")

	return db, nil
}

// returns nil when no redis url is configured
func openRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis")

	return client, nil
}
