package tui

import (
	"context"
	"net/http"
	"sync"
	"time"

	"codeberg.org/archviz/studio/archviz/users"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
)

// which input currently owns the keyboard
type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeConfirm
	modeQuota
	modeNewUser
	modeAPIKey
	modeHelp
)

// actions that need a y/n answer first
type actionKind int

const (
	actionToggleActive actionKind = iota
	actionDelete
	actionResetPassword
	actionClearAPIKey
)

// admin operations the console performs over REST
type API interface {
	SetActive(ctx context.Context, id string, active bool) (*users.User, error)
	ResetPassword(ctx context.Context, id string) (string, error)
	UpdateQuota(ctx context.Context, id string, quota int) error
	DeleteUser(ctx context.Context, id string) error
	CreateUser(ctx context.Context, req users.CreateRequest) (*users.User, error)
	APIKeyMask(ctx context.Context) (string, error)
	SetAPIKey(ctx context.Context, key string) (string, error)
	ClearAPIKey(ctx context.Context) error
}

// pushed record changes, already decoded into tea messages
type Feed interface {
	Events() <-chan tea.Msg
}

// main TUI application model
type Model struct {
	api      API
	feed     Feed
	keyMask  string
	roster   *Roster
	table    table.Model
	search   textinput.Model
	input    textinput.Model
	form     newUserForm
	mode     mode
	pending  *pendingAction
	status   string
	isError  bool
	online   bool
	admin    string
	width    int
	height   int
	helpText string
	now      func() time.Time
}

type pendingAction struct {
	kind   actionKind
	user   users.User
	prompt string
}

// the fields of the create form, in tab order
type newUserForm struct {
	inputs  []textinput.Model
	focused int
}

// local copy of every user record, kept current by the feed
type Roster struct {
	mu      sync.RWMutex
	records map[string]users.User
	ready   bool
}

// REST client for the admin endpoints
type RESTClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// websocket subscription to the users topic
type WSClient struct {
	url      string
	dialer   *websocket.Dialer
	events   chan tea.Msg
	mu       sync.Mutex
	conn     *websocket.Conn
	stopOnce sync.Once
	stop     chan struct{}
}

// the operator key as the server reports it
type keyResponse struct {
	Configured bool   `json:"configured"`
	Masked     string `json:"masked"`
}

// the server's error body
type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

// feed messages

type snapshotMsg struct {
	users []users.User
}

type changedMsg struct {
	user users.User
}

type deletedMsg struct {
	userID  string
	version int64
}

// an error the server pushed over the feed
type feedErrMsg struct {
	err error
}

type connectionMsg struct {
	online bool
	err    error
}

// results of REST actions

type actionDoneMsg struct {
	status string
}

type actionErrMsg struct {
	err error
}

// the operator key's masked form; empty when none is set
type keyMaskMsg struct {
	mask   string
	status string
}
