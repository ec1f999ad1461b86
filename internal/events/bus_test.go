package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversToMatchingTopics(t *testing.T) {
	bus := NewBus()

	all := bus.Subscribe(TopicUsers)
	mine := bus.Subscribe(UserTopic("u1"))
	other := bus.Subscribe(UserTopic("u2"))

	bus.PublishChanged("u1", 3, map[string]string{"username": "alice"})

	ev := <-all
	assert.Equal(t, TopicUsers, ev.Topic)
	assert.Equal(t, uint64(1), ev.Seq)
	assert.Equal(t, KindUserChanged, ev.Kind)
	assert.Equal(t, int64(3), ev.Version)

	ev = <-mine
	assert.Equal(t, UserTopic("u1"), ev.Topic)
	assert.Equal(t, uint64(1), ev.Seq)

	assert.Empty(t, other)
}

func TestBus_SequencePerTopic(t *testing.T) {
	bus := NewBus()

	bus.PublishChanged("u1", 1, nil)
	bus.PublishChanged("u2", 1, nil)
	bus.PublishDeleted("u1", 2)

	assert.Equal(t, uint64(3), bus.Seq(TopicUsers))
	assert.Equal(t, uint64(2), bus.Seq(UserTopic("u1")))
	assert.Equal(t, uint64(1), bus.Seq(UserTopic("u2")))
}

func TestBus_DropsForSlowSubscriber(t *testing.T) {
	bus := NewBus()

	dropped := 0
	bus.OnDrop = func(string) { dropped++ }

	ch := bus.Subscribe(TopicUsers)
	for i := 0; i < subscriberBuffer+5; i++ {
		bus.PublishChanged("u1", int64(i), nil)
	}

	assert.Len(t, ch, subscriberBuffer)
	assert.Equal(t, 5, dropped)
}

func TestBus_UnsubscribeClosesOnce(t *testing.T) {
	bus := NewBus()

	ch := bus.Subscribe(TopicUsers)
	bus.Unsubscribe(ch)
	bus.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)

	require.NotPanics(t, func() { bus.PublishDeleted("u1", 1) })
}

func TestParseUserTopic(t *testing.T) {
	id, ok := ParseUserTopic("user:abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = ParseUserTopic("user:")
	assert.False(t, ok)

	assert.True(t, ValidTopic(TopicUsers))
	assert.False(t, ValidTopic("sessions"))
}

func TestBus_ResyncAfterDrop(t *testing.T) {
	bus := NewBus()

	ch := bus.Subscribe(TopicUsers)

	for i := 0; i <= subscriberBuffer; i++ {
		bus.PublishChanged("u1", int64(i), nil)
	}

	for range subscriberBuffer {
		<-ch
	}

	bus.PublishChanged("u1", 100, nil)

	ev := <-ch
	assert.Equal(t, KindResync, ev.Kind)
	assert.Equal(t, TopicUsers, ev.Topic)

	ev = <-ch
	assert.Equal(t, KindUserChanged, ev.Kind)
	assert.Equal(t, int64(100), ev.Version)

	bus.PublishChanged("u1", 101, nil)

	ev = <-ch
	assert.Equal(t, KindUserChanged, ev.Kind, "resync is sent once")
}
