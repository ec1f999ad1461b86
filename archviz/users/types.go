package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// identity used for configured admin credentials; never stored
	AdminID = "admin"

	DateLayout = "2006-01-02"

	DefaultValidityDays = 30
	DefaultDailyQuota   = 10
	MinPasswordLength   = 6

	StatusActive  = "active"
	StatusBanned  = "banned"
	StatusExpired = "expired"
)

// daily quota presets accepted on create
var Tiers = map[string]int{
	"trial":    3,
	"standard": 10,
	"pro":      30,
	"studio":   100,
}

var (
	ErrNotFound           = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrPasswordUnchanged  = errors.New("new password must differ from the current one")
	ErrInvalidDays        = errors.New("validity days must be at least 1")
	ErrInvalidQuota       = errors.New("daily quota must be at least 1")
	ErrUnknownTier        = errors.New("unknown tier")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrBanned             = errors.New("account is banned")
	ErrExpired            = errors.New("account has expired")
)

// a login-capable account with its daily usage counter
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"-"`
	IsActive      bool      `json:"is_active"`
	ExpiryDate    time.Time `json:"expiry_date"`
	CreatedAt     time.Time `json:"created_at"`
	DailyQuota    int       `json:"daily_quota"`
	UsageCount    int       `json:"usage_count"`
	LastUsageDate string    `json:"last_usage_date"`
	Version       int64     `json:"version"`
}

// fields persisted on insert
type NewUser struct {
	Username      string
	PasswordHash  string
	ExpiryDate    time.Time
	DailyQuota    int
	LastUsageDate string
}

// persistence for user records; every update bumps Version
type Store interface {
	Create(ctx context.Context, in NewUser) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateActive(ctx context.Context, id string, active bool) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) (*User, error)
	UpdateQuota(ctx context.Context, id string, quota int) (*User, error)
	UpdateUsage(ctx context.Context, id string, count int, date string) (*User, error)
	Delete(ctx context.Context, id string) error
}

// receives a snapshot after every successful write
type Publisher interface {
	PublishChanged(userID string, version int64, record any)
	PublishDeleted(userID string, version int64)
}

// postgres-backed Store
type Repository struct {
	db *pgxpool.Pool
}

// admin create form
type CreateRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Days       int    `json:"days"`
	DailyQuota int    `json:"daily_quota"`
	Tier       string `json:"tier"`
}

// header figures for the admin dashboard
type Stats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Expired int `json:"expired"`
}
