package editor

import (
	"time"

	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/events"
)

// creates a session manager and starts its cleanup loop
func NewManager(deps Deps) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		deps:     &deps,
		stopChan: make(chan struct{}),
	}

	// start cleanup goroutine
	go m.cleanupExpiredSessions()

	return m
}

// returns the identity's session, creating it on first use
func (m *Manager) Session(identity Identity) *Session {
	m.mu.RLock()
	session, exists := m.sessions[identity.UserID]
	m.mu.RUnlock()

	if exists {
		return session
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if session, exists = m.sessions[identity.UserID]; exists {
		return session
	}

	session = newSession(identity, m.deps)
	m.sessions[identity.UserID] = session
	m.observeCount()

	return session
}

func (m *Manager) lookup(userID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[userID]

	return session, exists
}

// must be called with lock held
func (m *Manager) observeCount() {
	if m.deps.Observer != nil {
		m.deps.Observer.SessionsActive(len(m.sessions))
	}
}

// keeps every session's quota tracker current from the record feed
func (m *Manager) Follow(feed Feed) {
	ch := feed.Subscribe(events.TopicUsers)

	m.mu.Lock()
	m.feed = feed
	m.feedCh = ch
	m.mu.Unlock()

	go func() {
		for ev := range ch {
			m.apply(ev)
		}
	}()
}

func (m *Manager) apply(ev events.Event) {
	if ev.Kind == events.KindResync {
		// events were dropped; trackers reseed from the store on next read
		m.mu.RLock()
		for _, session := range m.sessions {
			session.tracker.Clear()
		}
		m.mu.RUnlock()

		return
	}

	session, ok := m.lookup(ev.UserID)
	if !ok {
		return
	}

	switch ev.Kind {
	case events.KindUserDeleted:
		session.tracker.Clear()
	case events.KindUserChanged:
		if u, ok := ev.Record.(users.User); ok {
			session.tracker.Apply(u)
		}
	}
}

// periodically removes expired sessions
func (m *Manager) cleanupExpiredSessions() {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.removeExpiredSessions()
		case <-m.stopChan:
			return
		}
	}
}

// removes all idle sessions
func (m *Manager) removeExpiredSessions() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.deps.now()
	for id, session := range m.sessions {
		if session.expired(now) {
			delete(m.sessions, id)
		}
	}

	m.observeCount()
}

// stops the cleanup goroutine and the record feed
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		feed, ch := m.feed, m.feedCh
		m.feed, m.feedCh = nil, nil
		m.mu.Unlock()

		if feed != nil {
			feed.Unsubscribe(ch)
		}
	})
}
