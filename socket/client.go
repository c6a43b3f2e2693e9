package socket

import (
	"net/http"
	"time"

	"formdesk/pkg/logger"

	"github.com/gorilla/websocket"
)

const (
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by CORS on the REST API; the feed is read-only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWs upgrades an authenticated request and registers the connection
// with the hub.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Sugar.Error(err)
		return
	}

	client := &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, sendBuffer),
	}

	select {
	case hub.Register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump discards incoming frames; it exists to notice when the peer goes
// away.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.Unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Sugar.Errorf("error: %v", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return // Connection is dead
			}
		}
	}
}
