package sse

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/velatum/bellum/internal/api/response"
	"github.com/velatum/bellum/internal/model"
)

const (
	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client represents a connected SSE client
type Client struct {
	hub         *Hub
	playerName  model.PlayerName
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a new SSE client
func NewClient(hub *Hub, playerName model.PlayerName) *Client {
	return &Client{
		hub:         hub,
		playerName:  playerName,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ServeSSE handles the SSE connection for a client. The initial session
// snapshot is written first so clients do not have to wait for the next
// write to learn the current roster.
//
// It reports false, without writing anything, when the hub was closed
// before the client could register — the caller should fetch a fresh
// hub and try again.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, playerName model.PlayerName, initial *model.Session) bool {
	// Check if SSE is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return true
	}

	// Register before writing: a hub torn down by cleanup between lookup
	// and registration must surface here, not as a wedged stream
	client := NewClient(hub, playerName)
	if !hub.Register(client) {
		return false
	}

	// Ensure cleanup on disconnect
	defer func() {
		hub.Unregister(client)
	}()

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	// Send initial connection event and current snapshot
	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	if initial != nil {
		if data, err := json.Marshal(response.SessionFromModel(initial)); err == nil {
			_, _ = w.Write(FormatMessage(EventSession, string(data)))
		}
	}
	flusher.Flush()

	// Create ticker for keepalive
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	// Handle client connection
	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				// Hub closed the channel
				return true
			}
			_, err := w.Write(message)
			if err != nil {
				return true
			}
			flusher.Flush()

		case <-ticker.C:
			// Send keepalive comment
			_, err := w.Write([]byte(": keepalive\n\n"))
			if err != nil {
				return true
			}
			flusher.Flush()

		case <-r.Context().Done():
			// Client disconnected
			return true
		}
	}
}
