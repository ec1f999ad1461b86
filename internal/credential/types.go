package credential

import (
	"context"
	"errors"
	"sync"

	"github.com/gorilla/sessions"

	"codeberg.org/archviz/studio/archviz/settings"
)

type Source string

const (
	SourceInjected Source = "injected"
	SourceClient   Source = "client"
	SourceOperator Source = "operator"
)

const (
	cookieName     = "archviz_credential"
	cookieKeyField = "api_key"
	cookieMaxAge   = 30 * 24 * 3600
)

var ErrMissingCredential = errors.New("missing api key")

// a resolved generator key and where it came from
type Credential struct {
	Key    string
	Source Source
}

type OperatorKeys interface {
	Get(ctx context.Context) (*settings.Settings, error)
}

// picks the generator key for an identity on every call
type Resolver struct {
	injected func() string
	operator OperatorKeys

	mu      sync.Mutex
	reentry map[string]bool
}

// client-local key kept in an encrypted cookie
type CookieKeys struct {
	store *sessions.CookieStore
}

