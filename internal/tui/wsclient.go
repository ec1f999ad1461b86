package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/events"
	realtime "codeberg.org/archviz/studio/internal/websocket"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
)

const (
	reconnectDelay = 2 * time.Second
	pongWait       = 70 * time.Second
	pingPeriod     = 30 * time.Second
	writeWait      = 10 * time.Second
	eventBuffer    = 256
)

var errServerShutdown = errors.New("server is shutting down")

// user_changed and user_deleted as the console reads them
type userEvent struct {
	UserID  string      `json:"user_id"`
	Version int64       `json:"version"`
	User    *users.User `json:"user"`
}

// builds the subscription url for the users topic from the server's base url
func NewWSClient(serverURL, token string) (*WSClient, error) {
	u, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	}

	u.Path += "/api/v1/ws"
	u.RawQuery = url.Values{
		"token": {token},
		"topic": {events.TopicUsers},
	}.Encode()

	return &WSClient{
		url: u.String(),
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		events: make(chan tea.Msg, eventBuffer),
		stop:   make(chan struct{}),
	}, nil
}

func (c *WSClient) Events() <-chan tea.Msg {
	return c.events
}

// connects and reconnects until Close; every connection starts with a fresh snapshot
func (c *WSClient) Run() {
	for {
		if c.isStopped() {
			return
		}

		conn, _, err := c.dialer.Dial(c.url, nil)
		if err != nil {
			c.emit(connectionMsg{online: false, err: err})

			if !c.sleep(reconnectDelay) {
				return
			}

			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()

		c.emit(connectionMsg{online: true})

		err = c.readLoop(conn)

		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()

		conn.Close() //nolint:errcheck,gosec // connection already failed

		if c.isStopped() {
			return
		}

		c.emit(connectionMsg{online: false, err: err})

		if !c.sleep(reconnectDelay) {
			return
		}
	}
}

func (c *WSClient) readLoop(conn *websocket.Conn) error {
	conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // websocket setup
	conn.SetPingHandler(func(data string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // ping handler
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
	})

	done := make(chan struct{})
	defer close(done)

	go c.pingLoop(conn, done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // websocket timing

		var msg realtime.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		out, ok, err := decode(msg)
		if err != nil {
			return err
		}

		if ok {
			c.emit(out)
		}
	}
}

// sends application pings so a dead server is noticed between its own pings
func (c *WSClient) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	ping, err := json.Marshal(map[string]string{"type": realtime.TypePing})
	if err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // websocket timing
			err := conn.WriteMessage(websocket.TextMessage, ping)
			c.mu.Unlock()

			if err != nil {
				return
			}
		}
	}
}

// turns a server message into a tea message; ok is false for messages the console ignores
func decode(msg realtime.Message) (tea.Msg, bool, error) {
	switch msg.Type {
	case realtime.TypeUsersSnapshot:
		var payload realtime.UsersSnapshotPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, false, fmt.Errorf("invalid snapshot: %w", err)
		}

		return snapshotMsg{users: payload.Users}, true, nil

	case realtime.TypeUserChanged:
		var payload userEvent
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.User == nil {
			return nil, false, nil
		}

		return changedMsg{user: *payload.User}, true, nil

	case realtime.TypeUserDeleted:
		var payload userEvent
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, false, nil
		}

		return deletedMsg{userID: payload.UserID, version: payload.Version}, true, nil

	case realtime.TypeServerShutdown:
		return nil, false, errServerShutdown

	case realtime.TypeError:
		var payload realtime.ErrorPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, false, nil
		}

		// an overflow closes the connection; the reconnect brings a new snapshot
		return feedErrMsg{err: fmt.Errorf("%s: %s", payload.Error, payload.Message)}, true, nil

	default:
		return nil, false, nil
	}
}

func (c *WSClient) emit(msg tea.Msg) {
	select {
	case c.events <- msg:
	case <-c.stop:
	}
}

// false when the client was closed while waiting
func (c *WSClient) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-c.stop:
		return false
	}
}

func (c *WSClient) isStopped() bool {
	select {
	case <-c.stop:
		return true
	default:
		return false
	}
}

// stops Run and closes the current connection
func (c *WSClient) Close() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close() //nolint:errcheck,gosec // best-effort close
	}
}
