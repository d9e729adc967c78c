package internal

import (
	"github.com/scythe504/rhetoric-frontier/internal/catalog"
	"github.com/scythe504/rhetoric-frontier/internal/hexmap"
)

// RoundState holds everything that lives for exactly one round.
type RoundState struct {
	TopicOptions map[string][]string
	Hands        map[string][]catalog.Fallacy

	Speakers   []string
	SpeakerIdx int

	Votes map[string]string

	Attackers   []string
	AttackerIdx int
	Attack      *Attack
	CancelVotes map[string]bool
	Ratings     map[string][]string

	// RoundScores holds the round's score deltas. They reach Player.Score
	// at the scoring point; the map phase then clamps them into the
	// capture quota.
	RoundScores map[string]int
	Captured    map[string]bool
	Speeches    []SpeechRecord
}

func NewRoundState() RoundState {
	return RoundState{
		TopicOptions: make(map[string][]string),
		Hands:        make(map[string][]catalog.Fallacy),
		SpeakerIdx:   -1,
		Votes:        make(map[string]string),
		AttackerIdx:  -1,
		CancelVotes:  make(map[string]bool),
		Ratings:      make(map[string][]string),
		RoundScores:  make(map[string]int),
		Captured:     make(map[string]bool),
	}
}

type Room struct {
	Code string
	Mode GameMode

	Phase     GamePhase
	Round     int
	RoundBase int

	Players map[string]*Player
	Order   []string
	Host    Conn
	Joined  int

	Board *hexmap.Board
	State RoundState
	Timer *GameTimer
}

func NewRoom(code string, mode GameMode, host Conn) *Room {
	return &Room{
		Code:    code,
		Mode:    mode,
		Phase:   PhaseLobby,
		Players: make(map[string]*Player),
		Order:   make([]string, 0, MaxPlayersPerRoom),
		Host:    host,
		State:   NewRoundState(),
	}
}

// GameRound is the round number counted from the start of the current game.
func (r *Room) GameRound() int {
	return r.Round - r.RoundBase
}

func (r *Room) GetPlayerCount() int {
	return len(r.Players)
}

func (r *Room) CanStartGame() bool {
	return r.GetPlayerCount() >= MinPlayersToStart
}

// OrderedPlayers returns the roster in join order.
func (r *Room) OrderedPlayers() []*Player {
	players := make([]*Player, 0, len(r.Order))
	for _, id := range r.Order {
		if p, ok := r.Players[id]; ok {
			players = append(players, p)
		}
	}
	return players
}

func (r *Room) PlayerIDs() []string {
	ids := make([]string, 0, len(r.Order))
	for _, p := range r.OrderedPlayers() {
		ids = append(ids, p.Id)
	}
	return ids
}

func (r *Room) Snapshots() []PlayerSnapshot {
	snaps := make([]PlayerSnapshot, 0, len(r.Order))
	for _, p := range r.OrderedPlayers() {
		snaps = append(snaps, CreatePlayerSnapshot(p))
	}
	return snaps
}

// CountResponded reports how many current roster members have an entry in
// responses. Entries of players who already left are not counted.
func CountResponded[V any](r *Room, responses map[string]V) int {
	n := 0
	for id := range r.Players {
		if _, ok := responses[id]; ok {
			n++
		}
	}
	return n
}

func (r *Room) ResetRoundState() {
	r.State = NewRoundState()
	for _, p := range r.Players {
		p.ResetRoundState()
	}
}

func (r *Room) Names() map[string]string {
	names := make(map[string]string, len(r.Players))
	for id, p := range r.Players {
		names[id] = p.Username
	}
	return names
}
