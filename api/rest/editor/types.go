package editor

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/editor"
	"codeberg.org/archviz/studio/internal/imageops"
)

const (
	defaultGenerationTimeout = 120 * time.Second

	resultPath = "/api/v1/editor/images/result"
)

// per-identity editor sessions
type Sessions interface {
	Session(identity editor.Identity) *editor.Session
}

// client-local key storage bound to the request
type ClientKeys interface {
	Get(r *http.Request) string
	Save(w http.ResponseWriter, r *http.Request, key string) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

// notified when a client stores a fresh key
type KeyListener interface {
	KeySaved(identity string)
}

// account lookup used to refuse banned or expired callers
type Accounts interface {
	Get(ctx context.Context, id string) (*users.User, error)
}

type Deps struct {
	Sessions          Sessions
	Keys              ClientKeys
	Credentials       KeyListener
	Accounts          Accounts
	GenerationTimeout time.Duration
	Now               func() time.Time
}

// JSON alternative to a multipart upload
type UploadRequest struct {
	DataURL string `json:"data_url" binding:"required"`
}

type TransformRequest struct {
	Kind imageops.Transform `json:"kind" binding:"required"`
}

type APIKeyRequest struct {
	APIKey string `json:"api_key" binding:"required,max=512"`
}

type PromptResponse struct {
	Prompt string `json:"prompt"`
}

type HistoryResponse struct {
	Changed bool        `json:"changed"`
	Session editor.View `json:"session"`
}

type GenerateResponse struct {
	Session   editor.View `json:"session"`
	ResultURL string      `json:"result_url"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
