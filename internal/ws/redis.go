package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/playmatatu/pong-server/internal/game"
)

// CommandChannel carries operator commands for live rooms, e.g.
//
//	{"type":"close_room","room":"R1"}
const CommandChannel = "room_commands"

// RoomCloser tears a room down as if a player had disconnected.
type RoomCloser interface {
	CloseRoom(room string) error
}

type roomCommand struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

// StartCommandSubscriber subscribes to CommandChannel and applies each
// command until ctx is cancelled. A nil client disables it.
func StartCommandSubscriber(ctx context.Context, rdb *redis.Client, rooms RoomCloser) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; room command subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, CommandChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] %s subscriber started", CommandChannel)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if err := handleCommand(msg.Payload, rooms); err != nil {
					log.Printf("[WS] room command %s failed: %v", msg.Payload, err)
				}
			}
		}
	}()
}

func handleCommand(payload string, rooms RoomCloser) error {
	var cmd roomCommand
	if err := json.Unmarshal([]byte(payload), &cmd); err != nil {
		return fmt.Errorf("invalid command payload: %w", err)
	}

	switch cmd.Type {
	case "close_room":
		if cmd.Room == "" {
			return errors.New("close_room without room")
		}
		if err := rooms.CloseRoom(cmd.Room); err != nil {
			if errors.Is(err, game.ErrUnknownRoom) {
				log.Printf("[WS] close_room: room %s is not active", cmd.Room)
				return nil
			}
			return err
		}
		log.Printf("[WS] room %s closed by command", cmd.Room)
		return nil
	default:
		return fmt.Errorf("unknown command type %q", cmd.Type)
	}
}
