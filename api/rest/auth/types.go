package auth

import (
	"context"
	"time"

	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/quota"
)

// user-facing login refusals
const (
	messageInvalidCredentials = "Invalid username or password."
	messageBanned             = "Your account has been suspended. Please contact the administrator."
	messageExpired            = "Your account has expired. Please contact the administrator."
)

// record access needed by login and /me
type Accounts interface {
	Authenticate(ctx context.Context, username, password string) (*users.User, error)
	Get(ctx context.Context, id string) (*users.User, error)
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=200"`
}

// LoginResponse returned after a successful login
type LoginResponse struct {
	Token string     `json:"token"`
	User  MeResponse `json:"user"`
}

// the caller's identity with today's reconciled usage
type MeResponse struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	IsAdmin    bool       `json:"is_admin"`
	Status     string     `json:"status"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	Quota      quota.View `json:"quota"`
}
