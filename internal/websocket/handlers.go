// internal/websocket/handlers.go
// WebSocket connection handlers and the message-type vocabulary used by
// TrainerService to narrate a run's progress.

package websocket

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleConnection handles new WebSocket connections.
func HandleConnection(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		userIDStr := ""
		if userID != nil {
			userIDStr = userID.(string)
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("Failed to upgrade connection: %v", err)
			return
		}

		client := &Client{
			hub:    hub,
			conn:   conn,
			send:   make(chan []byte, 256),
			userID: userIDStr,
			runs:   make([]string, 0),
		}

		hub.register <- client

		welcomeMsg := Message{
			Type: "welcome",
			Data: map[string]interface{}{
				"message": "Connected to the scheduler training feed",
				"user_id": userIDStr,
			},
		}
		if data, err := json.Marshal(welcomeMsg); err == nil {
			client.send <- data
		}

		go client.writePump()
		go client.readPump()
	}
}

// Message types for WebSocket communication, one per event a run's host
// needs to react to.
const (
	// Lifecycle
	MessageRunCreated = "run_created"
	MessageRunStopped = "run_stopped"
	MessageRunFailed  = "run_failed"

	// Phase progress — phase_complete Data carries qlearning.EpisodeMetrics;
	// the evaluator scores travel in the run_completed payload.
	MessagePhaseStarted  = "phase_started"
	MessagePhaseComplete = "phase_complete"
	MessageRunCompleted  = "run_completed"

	// Generic
	MessageNotification = "notification"
	MessageAlert        = "alert"
)
