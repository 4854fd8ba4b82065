package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/playmatatu/pong-server/internal/game"
)

// Dispatcher receives decoded frames and disconnect notices from the hub.
// Both are called without any hub lock held.
type Dispatcher interface {
	Dispatch(connID string, msg Message)
	HandleDisconnect(connID string)
}

// Hub maintains the set of active clients and the room groups used for
// broadcasts. It implements game.Broadcaster.
type Hub struct {
	clients    map[string]*Client            // connID -> Client
	rooms      map[string]map[string]*Client // room -> connID -> Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex

	upgrader   websocket.Upgrader
	dispatcher Dispatcher
}

var _ game.Broadcaster = (*Hub)(nil)

// NewHub creates a hub. checkOrigin may be nil to accept every origin.
func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// SetDispatcher must be called before Run.
func (h *Hub) SetDispatcher(d Dispatcher) {
	h.dispatcher = d
}

// Run owns client registration until ctx is cancelled. A client's pumps
// are started only after it is in the client map, so its first frame can
// already be answered.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			log.Println("[WS] hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()

			log.Printf("[WS] client %s connected from %s", client.id, client.conn.RemoteAddr())

			go client.writePump()
			go client.readPump()

		case client := <-h.unregister:
			h.mu.Lock()
			cur, ok := h.clients[client.id]
			if ok && cur == client {
				delete(h.clients, client.id)
				if room, exists := h.rooms[client.room]; exists {
					delete(room, client.id)
					if len(room) == 0 {
						delete(h.rooms, client.room)
					}
				}
				close(client.send)
			}
			h.mu.Unlock()

			if ok && cur == client {
				log.Printf("[WS] client %s disconnected", client.id)
				if h.dispatcher != nil {
					h.dispatcher.HandleDisconnect(client.id)
				}
			}
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		client.conn.Close()
		close(client.send)
		delete(h.clients, id)
	}
	h.rooms = make(map[string]map[string]*Client)
}

// ServeWS upgrades the request and hands the new client to Run.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Join adds connID to the broadcast group of room.
func (h *Hub) Join(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		log.Printf("[WS] Join: no client %s for room %s", connID, room)
		return
	}
	if _, exists := h.rooms[room]; !exists {
		h.rooms[room] = make(map[string]*Client)
	}
	h.rooms[room][connID] = client
	client.room = room
}

// Send delivers one event to a single connection.
func (h *Hub) Send(connID, event string, payload any) {
	data, err := encode(event, payload)
	if err != nil {
		log.Printf("[WS] Error marshaling %s: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, exists := h.clients[connID]; exists {
		client.enqueue(data)
	} else {
		log.Printf("[WS] Send: no client %s for %s", connID, event)
	}
}

// Broadcast delivers one event to every member of room.
func (h *Hub) Broadcast(room, event string, payload any) {
	h.BroadcastExcept(room, "", event, payload)
}

// BroadcastExcept delivers one event to every member of room but skipConnID.
func (h *Hub) BroadcastExcept(room, skipConnID, event string, payload any) {
	data, err := encode(event, payload)
	if err != nil {
		log.Printf("[WS] Error marshaling %s: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, client := range h.rooms[room] {
		if id == skipConnID {
			continue
		}
		client.enqueue(data)
	}
}

// CloseRoom dissolves a room's broadcast group. Members stay connected.
func (h *Hub) CloseRoom(room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.rooms[room] {
		client.room = ""
	}
	delete(h.rooms, room)
}

// RoomSize reports how many connections are in a room's group.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func encode(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: event, Data: data})
}
