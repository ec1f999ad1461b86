package quota

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"

	"codeberg.org/archviz/studio/archviz/users"
)

var (
	ErrQuotaReached = errors.New("daily quota reached")
	ErrNoSession    = errors.New("no user session")
)

// result of an admission check
type Decision struct {
	Allowed   bool `json:"allowed"`
	Usage     int  `json:"usage"`
	Quota     int  `json:"quota"`
	Remaining int  `json:"remaining"`
	IsAdmin   bool `json:"is_admin"`
}

// display-side reconciliation of a record for a given day
type View struct {
	UserID        string  `json:"user_id"`
	Username      string  `json:"username"`
	Usage         int     `json:"usage"`
	DailyQuota    int     `json:"daily_quota"`
	UsagePercent  float64 `json:"usage_percent"`
	LimitReached  bool    `json:"limit_reached"`
	LastUsageDate string  `json:"last_usage_date"`
	Version       int64   `json:"version"`
}

// record access needed to count usage
type Records interface {
	Get(ctx context.Context, id string) (*users.User, error)
	SetUsage(ctx context.Context, id string, count int, date string) (*users.User, error)
}

// records one generation per call
type Service struct {
	records Records
}

// slot reservations used by strict mode
type Reserver interface {
	Seed(ctx context.Context, userID, date string, usage int) error
	Reserve(ctx context.Context, userID, date string, limit int) (bool, error)
	Release(ctx context.Context, userID, date string) error
}

// admission against the stored record, optionally reserving a slot
type Gate struct {
	records  Records
	reserver Reserver
}

// redis-backed Reserver
type RedisCounter struct {
	client *redis.Client
}

// follows one identity's pushed record stream
type Tracker struct {
	mu      sync.RWMutex
	userID  string
	isAdmin bool
	record  *users.User
}

// redis key patterns
const (
	// quota:{userID}:{date} - reserved generations for the day
	keyQuota = "quota:%s:%s"
)
