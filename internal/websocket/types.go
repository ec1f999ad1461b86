package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/events"
	"github.com/gorilla/websocket"
)

// message types pushed to subscribers
const (
	TypeUsersSnapshot  = "users_snapshot"
	TypeUserSnapshot   = "user_snapshot"
	TypeUserChanged    = "user_changed"
	TypeUserDeleted    = "user_deleted"
	TypeServerShutdown = "server_shutdown"
	TypeError          = "error"
)

// message types a client may send
const (
	TypePing = "ping"
	TypePong = "pong"
)

const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// inbound frames are tiny pings; anything larger is abuse
	maxMessageSize = 4 * 1024

	sendBufferSize = 64

	snapshotTimeout = 10 * time.Second
)

// connection limits
const (
	maxConnectionsPerUser = 5
	maxConnectionsPerIP   = 10
)

var ErrConnectionClosed = errors.New("connection closed")

// the websocket envelope
type Message struct {
	Type      string          `json:"type"`
	Topic     string          `json:"topic"`
	Timestamp time.Time       `json:"timestamp"`
	Sequence  uint64          `json:"seq"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// users_snapshot payload
type UsersSnapshotPayload struct {
	Users []users.User `json:"users"`
}

// user_snapshot payload
type UserSnapshotPayload struct {
	User users.User `json:"user"`
}

// user_changed and user_deleted payload; User is nil on deletion
type UserEventPayload struct {
	UserID  string `json:"user_id"`
	Version int64  `json:"version"`
	User    any    `json:"user,omitempty"`
}

type ServerShutdownPayload struct {
	Reason string `json:"reason"`
}

type ErrorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// record reads used to build snapshots
type Snapshots interface {
	List(ctx context.Context) ([]users.User, error)
	Get(ctx context.Context, id string) (*users.User, error)
}

// record change source
type Subscriber interface {
	Subscribe(topic string) chan events.Event
	Unsubscribe(ch chan events.Event)
}

// one websocket connection subscribed to one topic
type Client struct {
	ID        string
	Topic     string
	UserID    string
	IsAdmin   bool
	IPAddress string
	conn      *websocket.Conn
	hub       *Hub
	send      chan []byte
	mu        sync.RWMutex
	closed    bool
}

// routes record changes to the clients subscribed to each topic
type Hub struct {
	topics          map[string]map[string]*Client
	Register        chan *Client
	Unregister      chan *Client
	mu              sync.RWMutex
	running         bool
	shutdown        chan struct{}
	stopOnce        sync.Once
	done            chan struct{}
	userConnections map[string]int
	ipConnections   map[string]int
	topicSequences  map[string]uint64
	feeds           map[string]chan events.Event
	bus             Subscriber
	snapshots       Snapshots
}
