// Package hub is the in-process real-time channel: a per-user event bus with
// an SSE endpoint. Delivery is best effort; slow subscribers drop frames
// instead of blocking the publisher.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Frame is one event on the wire.
type Frame struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// Hub tracks the open sessions of each user. A user may hold several
// sessions (multiple devices); every session gets every frame.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}

	heartbeat time.Duration
}

func New() *Hub {
	return &Hub{
		subs:      make(map[string]map[chan []byte]struct{}),
		heartbeat: 25 * time.Second,
	}
}

// Subscribe registers a session for the user and returns its channel plus a
// cancel func that must be called when the session ends.
func (h *Hub) Subscribe(userID string) (ch chan []byte, cancel func()) {
	ch = make(chan []byte, 16)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan []byte]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		if subs, ok := h.subs[userID]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(h.subs, userID)
			}
		}
		h.mu.Unlock()
		close(ch)
	}
}

// SendToUsers implements notify.RealtimeSender. Frames to users without open
// sessions are dropped silently; full session buffers are skipped.
func (h *Hub) SendToUsers(ctx context.Context, userIDs []string, event string, payload any) error {
	data, err := json.Marshal(Frame{Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("frame encode error: %w", err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range userIDs {
		for ch := range h.subs[userID] {
			select {
			case ch <- data:
			default: // drop if slow
			}
		}
	}

	return nil
}

// ConnectedUsers returns the ids of users with at least one open session.
func (h *Hub) ConnectedUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]string, 0, len(h.subs))
	for id := range h.subs {
		out = append(out, id)
	}
	return out
}

// ServeSSE serves one SSE connection for the given user until the request
// context is done.
func (h *Hub) ServeSSE(w http.ResponseWriter, r *http.Request, userID string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	ch, cancel := h.Subscribe(userID)
	defer cancel()

	// Initial comment to open the stream.
	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			// Heartbeat comment keeps the connection alive through proxies.
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write([]byte("data: "))
			_, _ = w.Write(msg)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}
