package ws

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/playmatatu/pong-server/internal/game"
)

// Inbound event names.
const (
	EventJoinRoom   = "joinRoom"
	EventMovePlayer = "movePlayer"
	EventPauseGame  = "pauseGame"

	// EventJoinRoomAck answers every joinRoom on the requesting connection.
	EventJoinRoomAck = "joinRoom:ack"
)

type JoinRoomRequest struct {
	PlayerName string `json:"playerName"`
	RoomName   string `json:"roomName"`
}

type MovePlayerRequest struct {
	PlayerNumber int    `json:"playerNumber"`
	RoomName     string `json:"roomName"`
	Direction    int    `json:"direction"`
}

type PauseGameRequest struct {
	PlayerNumber int    `json:"playerNumber"`
	RoomName     string `json:"roomName"`
}

// JoinRoomAck carries the admission error, if any.
type JoinRoomAck struct {
	Error string `json:"error,omitempty"`
}

// GameDispatcher translates protocol frames into registry operations.
type GameDispatcher struct {
	hub   *Hub
	games *game.Registry
}

var _ Dispatcher = (*GameDispatcher)(nil)

func NewGameDispatcher(hub *Hub, games *game.Registry) *GameDispatcher {
	return &GameDispatcher{hub: hub, games: games}
}

func (d *GameDispatcher) Dispatch(connID string, msg Message) {
	switch msg.Type {
	case EventJoinRoom:
		var req JoinRoomRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			log.Printf("[WS] invalid joinRoom from %s: %v", connID, err)
			d.hub.Send(connID, EventJoinRoomAck, JoinRoomAck{Error: ackMessage(game.ErrInvalidRequest)})
			return
		}
		d.joinRoom(connID, req)

	case EventMovePlayer:
		var req MovePlayerRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			log.Printf("[WS] invalid movePlayer from %s: %v", connID, err)
			return
		}
		d.intent(connID, EventMovePlayer, d.games.MovePlayer(req.RoomName, req.PlayerNumber, req.Direction))

	case EventPauseGame:
		var req PauseGameRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			log.Printf("[WS] invalid pauseGame from %s: %v", connID, err)
			return
		}
		d.intent(connID, EventPauseGame, d.games.PauseGame(req.RoomName, req.PlayerNumber))

	default:
		log.Printf("[WS] unknown message type %q from %s", msg.Type, connID)
	}
}

func (d *GameDispatcher) joinRoom(connID string, req JoinRoomRequest) {
	slot, err := d.games.Join(connID, req.PlayerName, req.RoomName)
	if err != nil {
		log.Printf("[WS] join %q by %q rejected: %v", req.RoomName, req.PlayerName, err)
		d.hub.Send(connID, EventJoinRoomAck, JoinRoomAck{Error: ackMessage(err)})
		return
	}
	log.Printf("[WS] client %s is player %d in room %s", connID, slot, req.RoomName)
	d.hub.Send(connID, EventJoinRoomAck, JoinRoomAck{})
}

// intent logs failed movement and pause intents. A vanished room means the
// session is already gone, so that case is silent.
func (d *GameDispatcher) intent(connID, event string, err error) {
	if err == nil || errors.Is(err, game.ErrUnknownRoom) {
		return
	}
	log.Printf("[WS] %s from %s ignored: %v", event, connID, err)
}

func (d *GameDispatcher) HandleDisconnect(connID string) {
	d.games.Disconnect(connID)
}

func ackMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidRequest):
		return "Player name and room name are required."
	case errors.Is(err, game.ErrRoomFull):
		return "Room is full."
	case errors.Is(err, game.ErrAlreadyJoined):
		return "Already in a room."
	default:
		return "Room is unavailable."
	}
}
