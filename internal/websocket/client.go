// internal/websocket/client.go
// WebSocket client connection handler — unchanged read/write pump shape
// from the teacher, subscription payload renamed from tournament_id to
// run_id.

package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

// Client represents a websocket client connection.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
	runs   []string
}

// ClientMessage represents a message from client.
type ClientMessage struct {
	Type   string          `json:"type"`
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg ClientMessage
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		switch msg.Type {
		case "subscribe":
			c.handleSubscribe(msg)
		case "unsubscribe":
			c.handleUnsubscribe(msg)
		case "ack":
			c.handleAck(msg)
		case "ping":
			c.handlePing()
		default:
			log.Printf("Unknown message type: %s", msg.Type)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleSubscribe(msg ClientMessage) {
	var data struct {
		RunID string `json:"run_id"`
	}

	if err := json.Unmarshal(msg.Data, &data); err != nil {
		log.Printf("Failed to unmarshal subscribe data: %v", err)
		return
	}

	if data.RunID != "" {
		c.hub.SubscribeToRun(c, data.RunID)

		response := Message{
			Type: "subscribed",
			Data: map[string]string{"run_id": data.RunID},
		}
		if responseData, err := json.Marshal(response); err == nil {
			c.send <- responseData
		}
	}
}

func (c *Client) handleUnsubscribe(msg ClientMessage) {
	var data struct {
		RunID string `json:"run_id"`
	}

	if err := json.Unmarshal(msg.Data, &data); err != nil {
		log.Printf("Failed to unmarshal unsubscribe data: %v", err)
		return
	}

	if data.RunID != "" {
		c.hub.UnsubscribeFromRun(c, data.RunID)

		response := Message{
			Type: "unsubscribed",
			Data: map[string]string{"run_id": data.RunID},
		}
		if responseData, err := json.Marshal(response); err == nil {
			c.send <- responseData
		}
	}
}

// handleAck processes the UI's acknowledgment of a phase-complete
// notification. Forwarded to TrainerService as a best-effort bookkeeping
// update only — training never blocks waiting for an ack, so a slow or
// disconnected UI can never stall or corrupt a run.
func (c *Client) handleAck(msg ClientMessage) {
	var data struct {
		RunID   string `json:"run_id"`
		Episode int    `json:"episode"`
	}
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		log.Printf("Failed to unmarshal ack data: %v", err)
		return
	}
	if data.RunID != "" {
		c.hub.services.Trainer.Acknowledge(data.RunID, data.Episode)
	}
}

func (c *Client) handlePing() {
	response := Message{
		Type: "pong",
		Data: map[string]int64{"timestamp": time.Now().Unix()},
	}
	if responseData, err := json.Marshal(response); err == nil {
		c.send <- responseData
	}
}

// close cleanly closes the client connection.
func (c *Client) close() {
	close(c.send)
}
