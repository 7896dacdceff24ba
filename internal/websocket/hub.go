// internal/websocket/hub.go
// WebSocket hub manages client connections and message broadcasting. Ported
// from the teacher's per-tournament subscription hub: rooms are now
// training runs instead of tournaments, but the register/unregister/
// broadcast channel shape — and the drop-the-client-on-a-full-send-channel
// policy — are unchanged. The worker (TrainerService) must never block on
// a slow UI, so a full send buffer means the client falls behind and gets
// disconnected rather than stalling the training loop.

package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"fllc-scheduler/internal/services"
)

// Hub maintains active websocket connections and broadcasts messages.
type Hub struct {
	// Registered clients by run ID
	runs map[string]map[*Client]bool

	// Registered clients by user ID (the single operator, in practice)
	users map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message

	services *services.Container
	logger   *log.Logger

	mu sync.RWMutex
}

// Message represents a WebSocket message.
type Message struct {
	Type   string      `json:"type"`
	RunID  string      `json:"run_id,omitempty"`
	UserID string      `json:"user_id,omitempty"`
	Data   interface{} `json:"data"`
}

// NewHub creates a new WebSocket hub.
func NewHub(services *services.Container, logger *log.Logger) *Hub {
	return &Hub{
		runs:       make(map[string]map[*Client]bool),
		users:      make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		services:   services,
		logger:     logger,
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.userID != "" {
		if existing, exists := h.users[client.userID]; exists {
			existing.close()
			h.removeClient(existing)
		}
		h.users[client.userID] = client
	}

	for _, runID := range client.runs {
		if h.runs[runID] == nil {
			h.runs[runID] = make(map[*Client]bool)
		}
		h.runs[runID][client] = true
	}

	h.logger.Printf("Client registered: %s (runs: %v)", client.userID, client.runs)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeClient(client)
	client.close()

	h.logger.Printf("Client unregistered: %s", client.userID)
}

func (h *Hub) removeClient(client *Client) {
	if client.userID != "" {
		delete(h.users, client.userID)
	}

	for _, runID := range client.runs {
		if clients, exists := h.runs[runID]; exists {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.runs, runID)
			}
		}
	}
}

func (h *Hub) broadcastMessage(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Printf("Failed to marshal message: %v", err)
		return
	}

	if message.RunID != "" {
		if clients, exists := h.runs[message.RunID]; exists {
			for client := range clients {
				select {
				case client.send <- data:
				default:
					h.removeClient(client)
					client.close()
				}
			}
		}
	}

	if message.UserID != "" {
		if client, exists := h.users[message.UserID]; exists {
			select {
			case client.send <- data:
			default:
				h.removeClient(client)
				client.close()
			}
		}
	}
}

// BroadcastRunUpdate broadcasts an update to every client subscribed to
// runID: the producer side of the worker/UI notification contract.
func (h *Hub) BroadcastRunUpdate(runID string, updateType string, data interface{}) {
	message := &Message{
		Type:  updateType,
		RunID: runID,
		Data:  data,
	}
	h.broadcast <- message
}

// SendToUser sends a message to a specific user.
func (h *Hub) SendToUser(userID string, messageType string, data interface{}) {
	message := &Message{
		Type:   messageType,
		UserID: userID,
		Data:   data,
	}
	h.broadcast <- message
}

// SubscribeToRun subscribes a client to a run's updates.
func (h *Hub) SubscribeToRun(client *Client, runID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.runs = append(client.runs, runID)

	if h.runs[runID] == nil {
		h.runs[runID] = make(map[*Client]bool)
	}
	h.runs[runID][client] = true

	h.logger.Printf("Client %s subscribed to run %s", client.userID, runID)
}

// UnsubscribeFromRun unsubscribes a client from a run's updates.
func (h *Hub) UnsubscribeFromRun(client *Client, runID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, id := range client.runs {
		if id == runID {
			client.runs = append(client.runs[:i], client.runs[i+1:]...)
			break
		}
	}

	if clients, exists := h.runs[runID]; exists {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.runs, runID)
		}
	}

	h.logger.Printf("Client %s unsubscribed from run %s", client.userID, runID)
}
