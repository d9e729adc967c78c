package internal

import "errors"

var (
	ErrNoConnection     = errors.New("player has no connection")
	ErrUnknownCommand   = errors.New("unknown command type")
	ErrMalformedCommand = errors.New("malformed command")
)
