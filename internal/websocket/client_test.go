package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSend_OverflowClosesClient(t *testing.T) {
	client := &Client{ID: "c1", Topic: "users", send: make(chan []byte, 1)}

	msg, err := NewMessage(TypeUserChanged, "users", nil)
	require.NoError(t, err)

	require.NoError(t, client.Send(msg))
	assert.ErrorIs(t, client.Send(msg), ErrConnectionClosed)
	assert.True(t, client.IsClosed())

	// further sends fail fast
	assert.ErrorIs(t, client.Send(msg), ErrConnectionClosed)
}

func TestClientHandleInbound_Ping(t *testing.T) {
	client := &Client{ID: "c1", Topic: "user:u1", send: make(chan []byte, 4)}

	client.handleInbound([]byte(`{"type":"ping"}`))

	msg := readMessage(t, client)
	assert.Equal(t, TypePong, msg.Type)
	assert.Equal(t, "user:u1", msg.Topic)
	assert.Empty(t, msg.Payload)
}

func TestClientHandleInbound_Rejects(t *testing.T) {
	client := &Client{ID: "c1", Topic: "users", send: make(chan []byte, 4)}

	client.handleInbound([]byte(`not json`))
	client.handleInbound([]byte(`{"type":"user_changed"}`))

	for _, want := range []string{"invalid message format", "unsupported message type"} {
		msg := readMessage(t, client)
		assert.Equal(t, TypeError, msg.Type)

		var payload ErrorPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, "bad_request", payload.Error)
		assert.Equal(t, want, payload.Message)
	}
}

func TestClientClose_Idempotent(t *testing.T) {
	client := &Client{send: make(chan []byte, 1)}

	client.Close()
	client.Close()

	assert.True(t, client.IsClosed())
}

func TestCheckOrigin(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://studio.example.com")

	assert.True(t, checkOriginValue("https://studio.example.com"))
	assert.False(t, checkOriginValue("https://evil.example.com"))
	assert.True(t, checkOriginValue(""))

	t.Setenv("ENVIRONMENT", "development")
	assert.True(t, checkOriginValue("https://evil.example.com"))
}
