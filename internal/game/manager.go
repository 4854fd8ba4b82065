package game

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"
)

// Registry owns every active session, keyed by room name, and remembers
// which room each connection joined so a disconnect can tear it down.
//
// Lock order is Registry, then Session, then whatever the Broadcaster uses.
// Deferred session callbacks never take the registry lock.
type Registry struct {
	env    Environment
	params Parameters
	out    Broadcaster
	rec    Recorder

	mu       sync.RWMutex
	sessions map[string]*Session // room name -> session
	connRoom map[string]string   // connection ID -> room name

	writes sync.WaitGroup // recorder calls started by any session
}

// NewRegistry creates an empty registry. rec may be nil.
func NewRegistry(env Environment, params Parameters, out Broadcaster, rec Recorder) *Registry {
	return &Registry{
		env:      env,
		params:   params,
		out:      out,
		rec:      rec,
		sessions: make(map[string]*Session),
		connRoom: make(map[string]string),
	}
}

func (r *Registry) Environment() Environment {
	return r.env
}

// Join admits connID to roomName under playerName and returns its slot.
// A room that does not exist yet is created with the joiner in slot 1.
func (r *Registry) Join(connID, playerName, roomName string) (int, error) {
	if playerName == "" || roomName == "" {
		return 0, fmt.Errorf("player name and room name are required: %w", ErrInvalidRequest)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.connRoom[connID]; ok {
		return 0, fmt.Errorf("connection %s is in room %s: %w", connID, current, ErrAlreadyJoined)
	}

	s, exists := r.sessions[roomName]
	if !exists {
		s = newSession(roomName, r.env, r.params, r.out, r.rec)
		s.writes = &r.writes
	}

	slot, err := s.join(connID, playerName)
	if err != nil {
		return 0, fmt.Errorf("join room %s: %w", roomName, err)
	}

	if !exists {
		r.sessions[roomName] = s
		log.Printf("[REGISTRY] room %s created", roomName)
	}
	r.connRoom[connID] = roomName
	return slot, nil
}

// MovePlayer applies a movement intent. Unknown rooms yield ErrUnknownRoom,
// which callers treat as a no-op.
func (r *Registry) MovePlayer(roomName string, slot, direction int) error {
	s, ok := r.Session(roomName)
	if !ok {
		return ErrUnknownRoom
	}
	return s.MovePlayer(slot, direction)
}

// PauseGame toggles a player's pause flag.
func (r *Registry) PauseGame(roomName string, slot int) error {
	s, ok := r.Session(roomName)
	if !ok {
		return ErrUnknownRoom
	}
	return s.TogglePause(slot)
}

// Disconnect tears down the room connID joined, if any. It reports whether
// a room was torn down.
func (r *Registry) Disconnect(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.connRoom[connID]
	if !ok {
		return false
	}
	log.Printf("[REGISTRY] connection %s left room %s", connID, room)
	r.removeLocked(room)
	return true
}

// CloseRoom tears a room down as if one of its players had disconnected.
func (r *Registry) CloseRoom(roomName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[roomName]; !ok {
		return ErrUnknownRoom
	}
	log.Printf("[REGISTRY] closing room %s", roomName)
	r.removeLocked(roomName)
	return nil
}

// removeLocked drops the session and every connection mapping that names
// it, then tears the session down. The teardown runs under the registry
// lock so a new session for the same name cannot be created in between.
func (r *Registry) removeLocked(room string) {
	s := r.sessions[room]
	delete(r.sessions, room)
	for connID, joined := range r.connRoom {
		if joined == room {
			delete(r.connRoom, connID)
		}
	}
	if s != nil {
		s.teardown()
	}
}

// Session looks up the active session for roomName.
func (r *Registry) Session(roomName string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[roomName]
	return s, ok
}

// RoomOf returns the room connID joined.
func (r *Registry) RoomOf(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.connRoom[connID]
	return room, ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Rooms lists every active session ordered by room name.
func (r *Registry) Rooms() []Summary {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	out := make([]Summary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Room < out[j].Room })
	return out
}

// Shutdown tears down every session, then waits up to recordTimeout for
// pending snapshot and result writes to finish.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	for room := range r.sessions {
		r.removeLocked(room)
	}
	r.mu.Unlock()
	log.Printf("[REGISTRY] all rooms closed")

	if !r.waitWrites(recordTimeout) {
		log.Printf("[REGISTRY] gave up waiting for pending writes after %s", recordTimeout)
	}
}

func (r *Registry) waitWrites(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		r.writes.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
