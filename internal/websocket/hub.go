package websocket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/events"
	"codeberg.org/archviz/studio/internal/logger"
	"codeberg.org/archviz/studio/internal/metrics"
)

func NewHub(bus Subscriber, snapshots Snapshots) *Hub {
	return &Hub{
		topics:          make(map[string]map[string]*Client),
		Register:        make(chan *Client),
		Unregister:      make(chan *Client),
		running:         false,
		shutdown:        make(chan struct{}),
		done:            make(chan struct{}),
		userConnections: make(map[string]int),
		ipConnections:   make(map[string]int),
		topicSequences:  make(map[string]uint64),
		feeds:           make(map[string]chan events.Event),
		bus:             bus,
		snapshots:       snapshots,
	}
}

// starts the hub's main loop
func (h *Hub) Run() {
	h.mu.Lock()
	h.running = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
		close(h.done)
	}()

	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case <-h.shutdown:
			h.closeAllConnections()
			return
		}
	}
}

// adds a client to its topic and sends the initial snapshot
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// subscribe before reading the snapshot so no change falls between the two
	h.ensureFeed(client.Topic)

	snapshot, err := h.snapshot(client.Topic)
	if err != nil {
		logger.ErrorErr(err, "failed to build snapshot",
			"client_id", client.ID,
			"topic", client.Topic,
		)
		client.SendError("server_error", "failed to load current state")
	} else if sendErr := client.Send(snapshot); sendErr != nil {
		logger.ErrorErr(sendErr, "failed to send snapshot",
			"client_id", client.ID,
			"topic", client.Topic,
		)
	}

	if h.topics[client.Topic] == nil {
		h.topics[client.Topic] = make(map[string]*Client)
	}

	h.topics[client.Topic][client.ID] = client

	if client.UserID != "" {
		h.userConnections[client.UserID]++
	}

	metrics.WebsocketConnections.Inc()
	metrics.WebsocketTopics.Set(float64(len(h.topics)))

	logger.Info("client registered",
		"client_id", client.ID,
		"topic", client.Topic,
		"user_id", client.UserID,
		"is_admin", client.IsAdmin,
	)
}

// removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	topicClients, exists := h.topics[client.Topic]
	if !exists {
		return
	}

	if _, exists := topicClients[client.ID]; !exists {
		return
	}

	delete(topicClients, client.ID)
	client.Close()

	metrics.WebsocketConnections.Dec()

	if client.UserID != "" {
		h.userConnections[client.UserID]--

		if h.userConnections[client.UserID] <= 0 {
			delete(h.userConnections, client.UserID)
		}
	}

	if client.IPAddress != "" {
		h.ipConnections[client.IPAddress]--

		if h.ipConnections[client.IPAddress] <= 0 {
			delete(h.ipConnections, client.IPAddress)
		}
	}

	logger.Info("client unregistered",
		"client_id", client.ID,
		"topic", client.Topic,
	)

	if len(topicClients) == 0 {
		delete(h.topics, client.Topic)
		delete(h.topicSequences, client.Topic)
		h.dropFeed(client.Topic)
		metrics.WebsocketTopics.Set(float64(len(h.topics)))

		logger.Debug("topic has no more subscribers, removed",
			"topic", client.Topic,
		)
	}
}

// subscribes the hub to a topic once (must be called with lock held)
func (h *Hub) ensureFeed(topic string) {
	if _, ok := h.feeds[topic]; ok || h.bus == nil {
		return
	}

	ch := h.bus.Subscribe(topic)
	h.feeds[topic] = ch

	go h.pump(ch)
}

// must be called with lock held
func (h *Hub) dropFeed(topic string) {
	ch, ok := h.feeds[topic]
	if !ok {
		return
	}

	delete(h.feeds, topic)
	h.bus.Unsubscribe(ch)
}

// forwards bus events until the subscription is closed
func (h *Hub) pump(ch chan events.Event) {
	for ev := range ch {
		h.Deliver(ev)
	}
}

// fans a record change out to the clients of its topic
func (h *Hub) Deliver(ev events.Event) {
	if ev.Kind == events.KindResync {
		h.resync(ev.Topic)
		return
	}

	msgType := TypeUserChanged
	if ev.Kind == events.KindUserDeleted {
		msgType = TypeUserDeleted
	}

	msg, err := NewMessage(msgType, ev.Topic, UserEventPayload{
		UserID:  ev.UserID,
		Version: ev.Version,
		User:    ev.Record,
	})
	if err != nil {
		logger.ErrorErr(err, "failed to encode event",
			"topic", ev.Topic,
			"kind", ev.Kind,
		)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.broadcastToTopic(ev.Topic, msg)
}

// rebroadcasts the full state of a topic after the feed dropped events
func (h *Hub) resync(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.topics[topic]; !exists {
		return
	}

	msg, err := h.snapshot(topic)
	if err != nil {
		logger.ErrorErr(err, "failed to build resync snapshot",
			"topic", topic,
		)
		return
	}

	logger.Warn("resending snapshot after dropped events", "topic", topic)

	h.broadcastToTopic(topic, msg)
}

// the internal broadcast function (must be called with lock held)
func (h *Hub) broadcastToTopic(topic string, msg *Message) {
	topicClients, exists := h.topics[topic]
	if !exists {
		return
	}

	// assign sequence number to message
	h.topicSequences[topic]++
	msg.Sequence = h.topicSequences[topic]

	for clientID, client := range topicClients {
		if err := client.Send(msg); err != nil {
			logger.Warn("failed to send message to client",
				"client_id", clientID,
				"topic", topic,
				"error", err,
			)
		}
	}
}

// builds the full-state message for a topic (must be called with lock held)
func (h *Hub) snapshot(topic string) (*Message, error) {
	if h.snapshots == nil {
		return nil, errors.New("no snapshot source configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	var (
		msg *Message
		err error
	)

	if topic == events.TopicUsers {
		list, listErr := h.snapshots.List(ctx)
		if listErr != nil {
			return nil, fmt.Errorf("failed to list users: %w", listErr)
		}

		msg, err = NewMessage(TypeUsersSnapshot, topic, UsersSnapshotPayload{Users: list})
	} else {
		userID, ok := events.ParseUserTopic(topic)
		if !ok {
			return nil, fmt.Errorf("invalid topic %q", topic)
		}

		user, getErr := h.snapshots.Get(ctx, userID)

		switch {
		case errors.Is(getErr, users.ErrNotFound):
			msg, err = NewMessage(TypeUserDeleted, topic, UserEventPayload{UserID: userID})
		case getErr != nil:
			return nil, fmt.Errorf("failed to get user: %w", getErr)
		default:
			msg, err = NewMessage(TypeUserSnapshot, topic, UserSnapshotPayload{User: *user})
		}
	}

	if err != nil {
		return nil, err
	}

	msg.Sequence = h.topicSequences[topic]
	return msg, nil
}

// stops the loop after notifying every client; blocks until the loop exits
func (h *Hub) Shutdown() {
	h.mu.RLock()
	running := h.running
	h.mu.RUnlock()

	h.stopOnce.Do(func() {
		close(h.shutdown)
	})

	if running {
		<-h.done
	}
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()

	logger.Info("notifying clients of server shutdown")

	// send shutdown notification to all clients first
	for topic, topicClients := range h.topics {
		shutdownMsg, err := NewMessage(TypeServerShutdown, topic, ServerShutdownPayload{
			Reason: "server is shutting down",
		})
		if err != nil {
			logger.ErrorErr(err, "failed to create shutdown message")
			continue
		}

		for _, client := range topicClients {
			if err := client.Send(shutdownMsg); err != nil {
				logger.Warn("failed to send shutdown notification",
					"client_id", client.ID,
					"topic", topic,
					"error", err,
				)
			}
		}
	}

	h.mu.Unlock()

	// give clients time to receive the shutdown message
	time.Sleep(500 * time.Millisecond)

	h.mu.Lock()
	defer h.mu.Unlock()

	logger.Info("closing all websocket connections")

	for topic, topicClients := range h.topics {
		for clientID, client := range topicClients {
			client.Close()
			metrics.WebsocketConnections.Dec()
			logger.Debug("closed client",
				"client_id", clientID,
				"topic", topic,
			)
		}
	}

	for topic := range h.feeds {
		h.dropFeed(topic)
	}

	// clear all topics and connection tracking
	h.topics = make(map[string]map[string]*Client)
	metrics.WebsocketTopics.Set(0)
	h.userConnections = make(map[string]int)
	h.ipConnections = make(map[string]int)
	h.topicSequences = make(map[string]uint64)
}

// checks if a new connection should be allowed based on limits
func (h *Hub) CanAcceptConnection(userID, ipAddress string) (bool, string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if userID != "" {
		count := h.userConnections[userID]
		if count >= maxConnectionsPerUser {
			return false, "Maximum connections per user exceeded"
		}
	}

	count := h.ipConnections[ipAddress]
	if count >= maxConnectionsPerIP {
		return false, "Maximum connections per IP address exceeded"
	}

	return true, ""
}

// increments the connection count for an IP address
func (h *Hub) TrackIPConnection(ipAddress string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ipConnections[ipAddress]++
}

// decrements the connection count for an IP address
func (h *Hub) UntrackIPConnection(ipAddress string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ipConnections[ipAddress]--

	if h.ipConnections[ipAddress] <= 0 {
		delete(h.ipConnections, ipAddress)
	}
}
