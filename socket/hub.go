package socket

import (
	"encoding/json"
	"sync"

	"formdesk/pkg/logger"

	"github.com/gorilla/websocket"
)

const broadcastBuffer = 64

type WSMessage struct {
	Type    string          `json:"type"`
	UserID  string          `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans form change events out to every connected dashboard.
type Hub struct {
	Broadcast  chan WSMessage
	Register   chan *Client
	Unregister chan *Client

	mu      sync.Mutex
	clients map[*Client]bool
	done    chan struct{}
}

type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	UserID string
	Send   chan []byte
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan WSMessage, broadcastBuffer),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Publish queues an event for broadcast. It never blocks: when the queue is
// full the event is dropped and logged.
func (h *Hub) Publish(eventType, userID string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling %s payload: %v", eventType, err)
		return
	}
	select {
	case h.Broadcast <- WSMessage{Type: eventType, UserID: userID, Payload: raw}:
	default:
		logger.Sugar.Warnf("Broadcast queue full, dropping %s event", eventType)
	}
}

// ClientCount reports how many dashboards are connected.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Stop ends Run and closes every client connection.
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Sugar.Infof("Feed client connected: %s", client.UserID)

		case client := <-h.Unregister:
			h.remove(client)

		case msg := <-h.Broadcast:
			payload, err := json.Marshal(msg)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling broadcast message: %v", err)
				continue
			}

			// Copy recipients so no lock is held while sending.
			h.mu.Lock()
			recipients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				recipients = append(recipients, client)
			}
			h.mu.Unlock()

			for _, client := range recipients {
				select {
				case client.Send <- payload:
				default:
					// The client is lagging; drop it rather than block the hub.
					logger.Sugar.Warnf("Client %s's send buffer is full. Unregistering.", client.UserID)
					h.remove(client)
					client.Conn.Close()
				}
			}

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
		logger.Sugar.Infof("Feed client disconnected: %s", client.UserID)
	}
}
