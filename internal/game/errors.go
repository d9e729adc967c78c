package game

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrGameInProgress      = errors.New("game already in progress")
	ErrRoomFull            = errors.New("room is full")
	ErrInsufficientPlayers = errors.New("not enough players to start")
	ErrRoomClosed          = errors.New("room closed")
	ErrConnClosed          = errors.New("connection closed")
	ErrSendBufferFull      = errors.New("send buffer full")
)

// userMessage is the text shown to a client whose request was refused.
func userMessage(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrRoomClosed):
		return "Room not found"
	case errors.Is(err, ErrGameInProgress):
		return "Game already in progress"
	case errors.Is(err, ErrRoomFull):
		return "Room is full"
	case errors.Is(err, ErrInsufficientPlayers):
		return "At least 2 players are needed to start"
	}
	return "Request failed"
}
