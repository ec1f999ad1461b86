package websocket

import (
	"encoding/json"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"codeberg.org/archviz/studio/internal/logger"
	"github.com/google/uuid"
)

// builds an envelope; a nil payload is omitted
func NewMessage(msgType, topic string, payload any) (*Message, error) {
	msg := &Message{
		Type:      msgType,
		Topic:     topic,
		Timestamp: time.Now().UTC(),
	}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}

		msg.Payload = raw
	}

	return msg, nil
}

func getAllowedWebSocketOrigins() []string {
	if envOrigins := os.Getenv("ALLOWED_ORIGINS"); envOrigins != "" {
		origins := strings.Split(envOrigins, ",")

		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}

		return origins
	}

	return []string{}
}

func CheckOrigin(r *http.Request) bool {
	return checkOriginValue(r.Header.Get("Origin"))
}

func checkOriginValue(origin string) bool {
	// non-browser clients such as the console send no origin; the token still gates access
	if origin == "" {
		return true
	}

	env := os.Getenv("ENVIRONMENT")
	if env != "production" {
		return true
	}

	// production: validate against allowed origins
	allowedOrigins := getAllowedWebSocketOrigins()

	if len(allowedOrigins) == 0 {
		logger.Warn("websocket origin rejected - ALLOWED_ORIGINS not configured",
			"origin", origin,
		)
		return false
	}

	if slices.Contains(allowedOrigins, origin) {
		return true
	}

	logger.Warn("websocket origin rejected - not in allowed origins",
		"origin", origin,
		"allowed_origins", allowedOrigins,
	)

	return false
}

func GenerateClientID() string {
	return uuid.NewString()
}
