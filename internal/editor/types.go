package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/catalog"
	"codeberg.org/archviz/studio/internal/credential"
	"codeberg.org/archviz/studio/internal/events"
	"codeberg.org/archviz/studio/internal/imageops"
	"codeberg.org/archviz/studio/internal/llm"
	"codeberg.org/archviz/studio/internal/quota"
)

type State string

const (
	StateIdle       State = "idle"
	StateLoaded     State = "loaded"
	StateGenerating State = "generating"
	StateResult     State = "result"
)

type Slot string

const (
	SlotMain      Slot = "main"
	SlotReference Slot = "reference"
	SlotResult    Slot = "result"
)

const (
	SessionExpiryDuration = 24 * time.Hour
	CleanupInterval       = 1 * time.Hour

	usageWriteTimeout = 10 * time.Second
)

var (
	ErrEmptyRequest         = errors.New("Please select a style or enter a description.") //nolint:staticcheck // shown to users verbatim
	ErrInvalidSelection     = errors.New("invalid selection")
	ErrGenerationInProgress = errors.New("generation already in progress")
	ErrNoImage              = errors.New("no image")
	ErrInvalidSlot          = errors.New("invalid image slot")

	ErrMissingCredential = credential.ErrMissingCredential
	ErrQuotaReached      = quota.ErrQuotaReached
)

// who owns a session
type Identity struct {
	UserID  string
	IsAdmin bool
}

// catalog picks and free text
type Selections struct {
	Category          catalog.Category     `json:"category"`
	RenderStyle       string               `json:"render_style"`
	ArchStyle         string               `json:"arch_style"`
	Scene             string               `json:"scene"`
	Room              string               `json:"room"`
	InteriorStyle     string               `json:"interior_style"`
	PlanStyle         string               `json:"plan_style"`
	InteriorMode      catalog.InteriorMode `json:"interior_mode"`
	Prompt            string               `json:"prompt"`
	AdditionalCommand string               `json:"additional_command"`
}

// ordered image snapshots with a cursor; cursor is -1 when empty
type History struct {
	entries []*imageops.Image
	cursor  int
}

type Credentials interface {
	Resolve(ctx context.Context, identity, clientKey string) (credential.Credential, error)
	MarkInvalid(identity string, cred credential.Credential)
}

type Admission interface {
	Admit(ctx context.Context, userID string, isAdmin bool, today string) (quota.Decision, error)
	Release(ctx context.Context, userID string, isAdmin bool, today string) error
}

type UsageRecorder interface {
	RecordUsage(ctx context.Context, userID, today string) (*users.User, error)
}

// record lookup used to seed a session's quota tracker
type Accounts interface {
	Get(ctx context.Context, id string) (*users.User, error)
}

// record change stream
type Feed interface {
	Subscribe(topic string) chan events.Event
	Unsubscribe(ch chan events.Event)
}

// observes generation outcomes
type Observer interface {
	GenerationFinished(kind string, duration time.Duration)
	AdmissionDenied()
	SessionsActive(n int)
}

// shared collaborators of every session
type Deps struct {
	Generator   llm.ImageGenerator
	Credentials Credentials
	Admission   Admission
	Usage       UsageRecorder
	Observer    Observer
	Accounts    Accounts
	Now         func() time.Time
}

// one user's editor
type Session struct {
	mu           sync.Mutex
	deps         *Deps
	identity     Identity
	state        State
	main         *imageops.Image
	reference    *imageops.Image
	result       *imageops.Image
	selections   Selections
	history      History
	tracker      *quota.Tracker
	lastError    string
	createdAt    time.Time
	lastActivity time.Time
}

// metadata of an image held in a slot
type ImageInfo struct {
	MimeType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Bytes    int    `json:"bytes"`
}

// serializable session snapshot
type View struct {
	State         State           `json:"state"`
	Selections    Selections      `json:"selections"`
	Main          *ImageInfo      `json:"main,omitempty"`
	Reference     *ImageInfo      `json:"reference,omitempty"`
	Result        *ImageInfo      `json:"result,omitempty"`
	HistoryLength int             `json:"history_length"`
	HistoryCursor int             `json:"history_cursor"`
	CanUndo       bool            `json:"can_undo"`
	CanRedo       bool            `json:"can_redo"`
	LastError     string          `json:"last_error,omitempty"`
	Prompt        string          `json:"prompt"`
	Quota         *quota.View     `json:"quota,omitempty"`
	Allowance     *quota.Decision `json:"allowance,omitempty"`
}

// per-user sessions with idle expiry
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	deps     *Deps
	stopChan chan struct{}
	stopOnce sync.Once
	feed     Feed
	feedCh   chan events.Event
}
