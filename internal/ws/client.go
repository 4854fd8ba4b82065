package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

// Message is one websocket frame in either direction.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Client is one websocket connection. room is guarded by the hub's lock.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	room string

	evict sync.Once
}

func (c *Client) ID() string {
	return c.id
}

// enqueue must be called with the hub lock held, which keeps send open.
// A client that cannot keep up is disconnected rather than skipped, so it
// never sees a partial event stream. Closing the connection fails readPump,
// which unregisters the client through the normal disconnect path.
func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		c.evict.Do(func() {
			log.Printf("[WS] send buffer full for client %s, disconnecting", c.id)
			c.conn.Close()
		})
	}
}

// readPump decodes frames and passes them to the dispatcher until the
// connection fails, which is the disconnect signal.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] unexpected close for client %s: %v", c.id, err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] invalid frame from client %s: %v", c.id, err)
			continue
		}
		if c.hub.dispatcher != nil {
			c.hub.dispatcher.Dispatch(c.id, msg)
		}
	}
}

// writePump drains the send channel and keeps the connection alive.
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
				log.Printf("[WS] write error for client %s: %v", c.id, err)
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
