package settings

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// the single global settings row
type Settings struct {
	APIKey    string    `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Store interface {
	Get(ctx context.Context) (*Settings, error)
	SetAPIKey(ctx context.Context, key string) (*Settings, error)
	ClearAPIKey(ctx context.Context) error
}

type Repository struct {
	db *pgxpool.Pool
}

type MemoryStore struct {
	mu       sync.RWMutex
	settings Settings
}
