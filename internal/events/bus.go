// Package events carries user record changes from the store layer to realtime
// subscribers. Events are published on two topics, "users" and "user:<id>",
// each with its own sequence counter.
package events

import (
	"strings"
	"time"
)

func NewBus() *Bus {
	return &Bus{
		subs: make(map[chan Event]*subscriber),
		seqs: make(map[string]uint64),
	}
}

// returns the per-record topic
func UserTopic(userID string) string {
	return topicUserPrefix + userID
}

// extracts the user id from a per-record topic
func ParseUserTopic(topic string) (string, bool) {
	id, ok := strings.CutPrefix(topic, topicUserPrefix)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}

func ValidTopic(topic string) bool {
	if topic == TopicUsers {
		return true
	}

	_, ok := ParseUserTopic(topic)
	return ok
}

func (b *Bus) Subscribe(topic string) chan Event {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	b.subs[ch] = &subscriber{ch: ch, topic: topic}
	b.mu.Unlock()

	return ch
}

func (b *Bus) Unsubscribe(ch chan Event) {
	if ch == nil {
		return
	}

	b.mu.Lock()
	_, ok := b.subs[ch]
	delete(b.subs, ch)
	b.mu.Unlock()

	if ok {
		close(ch)
	}
}

// current sequence number of a topic
func (b *Bus) Seq(topic string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.seqs[topic]
}

func (b *Bus) PublishChanged(userID string, version int64, record any) {
	b.publish(KindUserChanged, userID, version, record)
}

func (b *Bus) PublishDeleted(userID string, version int64) {
	b.publish(KindUserDeleted, userID, version, nil)
}

func (b *Bus) publish(kind, userID string, version int64, record any) {
	now := time.Now().UTC()

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, topic := range []string{TopicUsers, UserTopic(userID)} {
		b.seqs[topic]++

		ev := Event{
			Topic:   topic,
			Seq:     b.seqs[topic],
			Kind:    kind,
			UserID:  userID,
			Version: version,
			Record:  record,
			Time:    now,
		}

		for _, sub := range b.subs {
			if sub.topic != topic {
				continue
			}

			b.deliver(sub, ev)
		}
	}
}

// must be called with lock held
func (b *Bus) deliver(sub *subscriber, ev Event) {
	if sub.lagged {
		resync := Event{Topic: ev.Topic, Seq: ev.Seq, Kind: KindResync, Time: ev.Time}

		select {
		case sub.ch <- resync:
			sub.lagged = false
		default:
		}
	}

	if !sub.lagged {
		select {
		case sub.ch <- ev:
			return
		default:
		}
	}

	// drop if subscriber is slow; it gets a resync once it catches up
	sub.lagged = true

	if b.OnDrop != nil {
		b.OnDrop(ev.Topic)
	}
}
