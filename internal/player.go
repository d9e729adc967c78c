package internal

import (
	"time"
)

// Conn is the write side of a client connection. Send must not block.
type Conn interface {
	Send(msg any) error
	Close()
}

type Player struct {
	Id       string `json:"id"`
	Conn     Conn   `json:"-"`
	Username string `json:"username"`
	Color    string `json:"color"`
	Score    int    `json:"score"`

	// Round-scoped selections
	Civilization string `json:"civilization,omitempty"`
	Topic        string `json:"topic,omitempty"`

	JoinedAt time.Time `json:"joined_at"`
}

type PlayerSnapshot struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Color        string `json:"color"`
	Score        int    `json:"score"`
	Civilization string `json:"civilization,omitempty"`
	Topic        string `json:"topic,omitempty"`
}

func (p *Player) ResetRoundState() {
	p.Civilization = ""
	p.Topic = ""
}

func CreatePlayerSnapshot(p *Player) PlayerSnapshot {
	return PlayerSnapshot{
		ID:           p.Id,
		Username:     p.Username,
		Color:        p.Color,
		Score:        p.Score,
		Civilization: p.Civilization,
		Topic:        p.Topic,
	}
}

// SafeSend delivers msg to the player's connection if it is still attached.
func (p *Player) SafeSend(msg any) error {
	if p.Conn == nil {
		return ErrNoConnection
	}
	return p.Conn.Send(msg)
}
