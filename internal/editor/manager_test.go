package editor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/events"
)

func TestManager_SessionPerUser(t *testing.T) {
	obs := &mockObserver{}
	m := NewManager(Deps{Observer: obs})
	defer m.Stop()

	a := m.Session(Identity{UserID: "u1"})
	b := m.Session(Identity{UserID: "u1"})
	c := m.Session(Identity{UserID: "u2"})

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, obs.sessions)
}

func TestManager_RemovesIdleSessions(t *testing.T) {
	now := fixedNow
	obs := &mockObserver{}
	m := NewManager(Deps{Now: func() time.Time { return now }, Observer: obs})
	defer m.Stop()

	m.Session(Identity{UserID: "u1"})

	now = now.Add(SessionExpiryDuration + time.Minute)
	m.Session(Identity{UserID: "u2"})

	m.removeExpiredSessions()

	_, ok := m.lookup("u1")
	assert.False(t, ok)
	_, ok = m.lookup("u2")
	assert.True(t, ok)
	assert.Equal(t, 1, obs.sessions)
}

func TestManager_FollowKeepsQuotaCurrent(t *testing.T) {
	today := users.Today(fixedNow)
	bus := events.NewBus()

	m := NewManager(Deps{Now: func() time.Time { return fixedNow }})
	m.Follow(bus)
	defer m.Stop()

	s := m.Session(Identity{UserID: "u1"})

	bus.PublishChanged("u2", 1, users.User{ID: "u2", DailyQuota: 5, Version: 1})
	bus.PublishChanged("u1", 2, users.User{ID: "u1", DailyQuota: 3, UsageCount: 3, LastUsageDate: today, Version: 2})

	assert.Eventually(t, func() bool {
		v, _, err := s.Quota(context.Background())
		return err == nil && v != nil && v.Usage == 3
	}, time.Second, 10*time.Millisecond)

	v, decision, err := s.Quota(context.Background())
	require.NoError(t, err)
	assert.True(t, v.LimitReached)
	assert.False(t, decision.Allowed)

	// an older snapshot arriving late is ignored
	bus.PublishChanged("u1", 1, users.User{ID: "u1", DailyQuota: 3, UsageCount: 0, LastUsageDate: today, Version: 1})
	bus.PublishDeleted("u1", 3)

	assert.Eventually(t, func() bool {
		v, _, err := s.Quota(context.Background())
		return err == nil && v == nil
	}, time.Second, 10*time.Millisecond)
}

func TestManager_ResyncClearsTrackers(t *testing.T) {
	today := users.Today(fixedNow)
	accounts := &mockAccounts{users: map[string]users.User{
		"u1": {ID: "u1", DailyQuota: 4, UsageCount: 1, LastUsageDate: today, Version: 9},
	}}

	m := NewManager(Deps{Now: func() time.Time { return fixedNow }, Accounts: accounts})
	defer m.Stop()

	s := m.Session(Identity{UserID: "u1"})
	s.tracker.Apply(users.User{ID: "u1", DailyQuota: 4, UsageCount: 3, LastUsageDate: today, Version: 5})

	m.apply(events.Event{Topic: events.TopicUsers, Kind: events.KindResync})

	v, _, err := s.Quota(context.Background())
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 1, v.Usage)
	assert.Equal(t, 1, accounts.gets)
}

func TestManager_StopIsIdempotent(t *testing.T) {
	bus := events.NewBus()
	m := NewManager(Deps{})
	m.Follow(bus)

	m.Stop()
	assert.NotPanics(t, m.Stop)
	assert.NotPanics(t, func() { bus.PublishChanged("u1", 1, nil) })
}
