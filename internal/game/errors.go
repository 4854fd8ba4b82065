package game

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrRoomFull       = errors.New("room is full")
	ErrUnknownRoom    = errors.New("unknown room")
	ErrAlreadyJoined  = errors.New("connection already joined a room")
)
