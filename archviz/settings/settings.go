// Package settings stores the operator-wide generator API key.
package settings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// creates the settings table and its single row
func (r *Repository) Initialize(ctx context.Context) error {
	_, err := r.db.Exec(ctx, queryCreateTable)
	return err
}

func (r *Repository) Get(ctx context.Context) (*Settings, error) {
	var s Settings

	err := r.db.QueryRow(ctx, queryGet).Scan(&s.APIKey, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &Settings{}, nil
	}

	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *Repository) SetAPIKey(ctx context.Context, key string) (*Settings, error) {
	var s Settings

	if err := r.db.QueryRow(ctx, querySetAPIKey, strings.TrimSpace(key)).Scan(&s.APIKey, &s.UpdatedAt); err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *Repository) ClearAPIKey(ctx context.Context) error {
	_, err := r.db.Exec(ctx, queryClearAPIKey)
	return err
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(_ context.Context) (*Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.settings
	return &s, nil
}

func (m *MemoryStore) SetAPIKey(_ context.Context, key string) (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = Settings{APIKey: strings.TrimSpace(key), UpdatedAt: time.Now().UTC()}

	s := m.settings
	return &s, nil
}

func (m *MemoryStore) ClearAPIKey(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = Settings{UpdatedAt: time.Now().UTC()}

	return nil
}

// keeps the first and last four characters of a key
func Mask(key string) string {
	if key == "" {
		return ""
	}

	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}

	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
