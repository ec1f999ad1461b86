package admin

import (
	"context"
	"time"

	"codeberg.org/archviz/studio/api/rest/pagination"
	"codeberg.org/archviz/studio/archviz/settings"
	"codeberg.org/archviz/studio/archviz/users"
)

const (
	defaultPageSize = 200
	maxPageSize     = 500

	generatedPasswordBytes = 6
)

// user administration used by the handlers
type UserAdmin interface {
	List(ctx context.Context) ([]users.User, error)
	Get(ctx context.Context, id string) (*users.User, error)
	Create(ctx context.Context, req users.CreateRequest) (*users.User, error)
	SetActive(ctx context.Context, id string, active bool) (*users.User, error)
	ResetPassword(ctx context.Context, id, password string) (*users.User, error)
	UpdateQuota(ctx context.Context, id string, quota int) (*users.User, error)
	Delete(ctx context.Context, id string) error
}

// notified when the operator key is replaced
type KeyListener interface {
	OperatorKeySaved()
}

type Deps struct {
	Users    UserAdmin
	Settings settings.Store
	Keys     KeyListener
	Now      func() time.Time
}

// one table row: the record plus today's display figures
type UserRow struct {
	users.User
	DisplayUsage int     `json:"display_usage"`
	UsagePercent float64 `json:"usage_percent"`
	Status       string  `json:"status"`
}

type ListUsersResponse struct {
	Users      []UserRow       `json:"users"`
	Stats      users.Stats     `json:"stats"`
	Pagination pagination.Meta `json:"pagination"`
}

type SetActiveRequest struct {
	Active  *bool `json:"active" binding:"required"`
	Confirm bool  `json:"confirm"`
}

// an empty password asks the server to generate one
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"max=200"`
	Confirm  bool   `json:"confirm"`
}

type ResetPasswordResponse struct {
	User     UserRow `json:"user"`
	Password string  `json:"password"`
}

type UpdateQuotaRequest struct {
	DailyQuota int `json:"daily_quota" binding:"required"`
}

type APIKeyRequest struct {
	APIKey string `json:"api_key" binding:"required,max=512"`
}

type APIKeyResponse struct {
	Configured bool       `json:"configured"`
	Masked     string     `json:"masked,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
