package events

import (
	"sync"
	"time"
)

const (
	// every user record
	TopicUsers = "users"

	topicUserPrefix = "user:"

	KindUserChanged = "user_changed"
	KindUserDeleted = "user_deleted"

	// sent to a subscriber ahead of the next event after it missed some
	KindResync = "resync"

	subscriberBuffer = 32
)

// one change notification; Record is the full snapshot for changes and nil for deletions
type Event struct {
	Topic   string    `json:"topic"`
	Seq     uint64    `json:"seq"`
	Kind    string    `json:"kind"`
	UserID  string    `json:"user_id"`
	Version int64     `json:"version"`
	Record  any       `json:"record,omitempty"`
	Time    time.Time `json:"time"`
}

type subscriber struct {
	ch     chan Event
	topic  string
	lagged bool
}

// in-process fan-out of record changes to topic subscribers
type Bus struct {
	mu   sync.Mutex
	subs map[chan Event]*subscriber
	seqs map[string]uint64

	// called with the topic whenever an event is dropped for a slow subscriber
	OnDrop func(topic string)
}
