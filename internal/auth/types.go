package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// context keys set by the middlewares
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextIsAdmin  = "is_admin"
)

const tokenLifetimeDays = 7

// represents JWT claims
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// configured admin credentials
type AdminCredentials struct {
	Username     string
	PasswordHash string
}
