package sse

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/velatum/bellum/internal/api/response"
	"github.com/velatum/bellum/internal/model"
	"github.com/velatum/bellum/internal/store"
)

// EventSession is the event name used for session document snapshots
const EventSession = "session"

// Hub manages SSE clients for a single session
type Hub struct {
	sessionName model.SessionName
	clients     map[*Client]bool
	mu          sync.RWMutex
	logger      *slog.Logger

	// Channels for managing clients
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub creates a new Hub for a session
func NewHub(sessionName model.SessionName, logger *slog.Logger) *Hub {
	return &Hub{
		sessionName: sessionName,
		clients:     make(map[*Client]bool),
		logger:      logger.With(slog.String("session", string(sessionName))),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan []byte, 256),
		done:        make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("sse hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("sse client registered",
				slog.String("player", string(client.playerName)),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				duration := time.Since(client.connectedAt)
				h.logger.Info("sse client unregistered",
					slog.String("player", string(client.playerName)),
					slog.Duration("connection_duration", duration),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			sentCount := 0
			droppedCount := 0
			for client := range h.clients {
				select {
				case client.send <- message:
					sentCount++
				default:
					droppedCount++
					h.logger.Warn("sse message dropped - client buffer full",
						slog.String("player", string(client.playerName)))
				}
			}
			h.mu.RUnlock()
			if droppedCount > 0 {
				h.logger.Warn("sse broadcast partial failure",
					slog.Int("sent", sentCount),
					slog.Int("dropped", droppedCount))
			}

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("sse hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Register adds a client to the hub. It reports false when the hub has
// been closed — the Run loop is gone, so an unguarded send would block
// the caller forever.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub. Safe to call after Close;
// a closed hub has already dropped all its clients.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast sends a message to all clients
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("sse broadcast dropped - hub buffer full")
	}
}

// BroadcastSession sends the session document snapshot to all clients.
// The document is converted to the API response shape so the access key
// never travels over the event stream.
func (h *Hub) BroadcastSession(session *model.Session) {
	data, err := json.Marshal(response.SessionFromModel(session))
	if err != nil {
		h.logger.Error("sse session marshal failed", slog.Any("error", err))
		return
	}
	h.Broadcast(FormatMessage(EventSession, string(data)))
}

// Close shuts down the hub
func (h *Hub) Close() {
	close(h.done)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatMessage formats an SSE message with event name and data.
// Multi-line data is properly formatted with "data: " prefix on each line
func FormatMessage(eventName, data string) []byte {
	msg := "event: " + eventName + "\n"
	// SSE requires each line of data to be prefixed with "data: "
	lines := splitLines(data)
	for _, line := range lines {
		msg += "data: " + line + "\n"
	}
	msg += "\n"
	return []byte(msg)
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	var lines []string
	var current string
	for _, r := range s {
		if r == '\n' {
			lines = append(lines, current)
			current = ""
		} else if r != '\r' {
			current += string(r)
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}

// HubManager manages hubs for all sessions. Each hub is fed by a store
// subscription for its session, so every document write reaches every
// connected client regardless of which process performed the write.
type HubManager struct {
	store  store.Store
	hubs   map[model.SessionName]*hubEntry
	mu     sync.RWMutex
	logger *slog.Logger
}

type hubEntry struct {
	hub   *Hub
	unsub store.UnsubscribeFunc
}

// NewHubManager creates a new HubManager
func NewHubManager(store store.Store, logger *slog.Logger) *HubManager {
	return &HubManager{
		store:  store,
		hubs:   make(map[model.SessionName]*hubEntry),
		logger: logger.With(slog.String("component", "sse")),
	}
}

// GetOrCreateHub returns the hub for a session, creating it and its
// store subscription if it doesn't exist
func (m *HubManager) GetOrCreateHub(ctx context.Context, sessionName model.SessionName) (*Hub, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.hubs[sessionName]; ok {
		return entry.hub, nil
	}

	hub := NewHub(sessionName, m.logger)
	unsub, err := m.store.SubscribeSession(ctx, sessionName, func(session *model.Session) {
		hub.BroadcastSession(session)
	})
	if err != nil {
		return nil, err
	}

	m.hubs[sessionName] = &hubEntry{hub: hub, unsub: unsub}
	go hub.Run()
	return hub, nil
}

// GetHub returns the hub for a session, or nil if it doesn't exist
func (m *HubManager) GetHub(sessionName model.SessionName) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if entry, ok := m.hubs[sessionName]; ok {
		return entry.hub
	}
	return nil
}

// RemoveHub removes a hub and cancels its store subscription
func (m *HubManager) RemoveHub(sessionName model.SessionName) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.hubs[sessionName]; ok {
		entry.unsub()
		entry.hub.Close()
		delete(m.hubs, sessionName)
		m.logger.Info("sse hub removed", slog.String("session", string(sessionName)))
	}
}

// CleanupEmptyHubs removes hubs with no clients
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removedCount := 0
	for name, entry := range m.hubs {
		if entry.hub.ClientCount() == 0 {
			entry.unsub()
			entry.hub.Close()
			delete(m.hubs, name)
			removedCount++
		}
	}
	if removedCount > 0 {
		m.logger.Info("sse empty hubs cleaned up", slog.Int("removed", removedCount))
	}
}

// Close shuts down all hubs and subscriptions
func (m *HubManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, entry := range m.hubs {
		entry.unsub()
		entry.hub.Close()
		delete(m.hubs, name)
	}
}
