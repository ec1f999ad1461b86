package websocket

import (
	"encoding/json"
	"time"

	"codeberg.org/archviz/studio/internal/logger"
	"github.com/gorilla/websocket"
)

// creates a new webSocket client connection
func NewClient(id, topic, userID string, isAdmin bool, ipAddress string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:        id,
		Topic:     topic,
		UserID:    userID,
		IsAdmin:   isAdmin,
		IPAddress: ipAddress,
		conn:      conn,
		hub:       hub,
		send:      make(chan []byte, sendBufferSize),
		closed:    false,
	}
}

// reads control messages until the connection drops
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister <- c
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket error",
					"client_id", c.ID,
					"topic", c.Topic,
					"error", err,
				)
			}

			break
		}

		c.handleInbound(messageBytes)
	}
}

// answers pings; subscribers have nothing else to say
func (c *Client) handleInbound(messageBytes []byte) {
	var msg Message
	if err := json.Unmarshal(messageBytes, &msg); err != nil {
		c.SendError("bad_request", "invalid message format")
		return
	}

	if msg.Type != TypePing {
		c.SendError("bad_request", "unsupported message type")
		return
	}

	pong, err := NewMessage(TypePong, c.Topic, nil)
	if err != nil {
		return
	}

	c.Send(pong) //nolint:errcheck,gosec // G104: best effort pong
}

// writes messages from the hub to the webSocket connection for sending to the client
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing

			if !ok {
				// hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck,gosec // G104: close message
				return
			}

			// one frame per message so clients can decode each as json
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket ping timing

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// queues a message; a full buffer closes the client so it reconnects for a fresh snapshot
func (c *Client) Send(msg *Message) (err error) {
	// recover from panic if channel is closed
	defer func() {
		if r := recover(); r != nil {
			err = ErrConnectionClosed
		}
	}()

	c.mu.RLock()

	if c.closed {
		c.mu.RUnlock()
		return ErrConnectionClosed
	}

	c.mu.RUnlock()

	messageBytes, marshalErr := json.Marshal(msg)
	if marshalErr != nil {
		return marshalErr
	}

	select {
	case c.send <- messageBytes:
		return nil
	default:
		c.sendBufferOverflowError()
		c.Close()
		return ErrConnectionClosed
	}
}

// sends buffer overflow error directly to websocket (bypassing the full channel)
func (c *Client) sendBufferOverflowError() {
	if c.conn == nil {
		return
	}

	errorMsg, err := NewMessage(TypeError, c.Topic, ErrorPayload{
		Error:   "buffer_overflow",
		Message: "too many updates queued, reconnect for a fresh snapshot",
	})
	if err != nil {
		return
	}

	errorBytes, err := json.Marshal(errorMsg)
	if err != nil {
		return
	}

	// write directly to websocket with short deadline
	c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck,gosec
	c.conn.WriteMessage(websocket.TextMessage, errorBytes)   //nolint:errcheck,gosec
}

// sends an error message to the client
func (c *Client) SendError(code, message string) {
	errorMsg, err := NewMessage(TypeError, c.Topic, ErrorPayload{
		Error:   code,
		Message: message,
	})
	if err != nil {
		logger.ErrorErr(err, "failed to create error message",
			"client_id", c.ID,
			"topic", c.Topic,
			"error_code", code,
		)
		return
	}

	c.Send(errorMsg) //nolint:errcheck,gosec // G104: best effort error notification
}

// closes the client connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// checks if the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.closed
}
