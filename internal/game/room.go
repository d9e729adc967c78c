package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/scythe504/rhetoric-frontier/internal"
	"github.com/scythe504/rhetoric-frontier/internal/catalog"
	"github.com/scythe504/rhetoric-frontier/internal/utils"
)

const roomInboxSize = 256

// =============================================================================
// ROOM ACTOR
// =============================================================================

// Room owns one game session. Every mutation of the embedded state runs on
// the goroutine executing Run; other goroutines reach it through Submit.
type Room struct {
	*internal.Room

	cfg     Config
	catalog *catalog.Catalog
	clock   Clock
	rng     *rand.Rand
	archive RoundArchive
	onClose func(code string)
	log     zerolog.Logger

	// background tracks archive writes still in flight
	background *sync.WaitGroup

	timerSeq uint64

	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

type roomDeps struct {
	cfg        Config
	catalog    *catalog.Catalog
	clock      Clock
	rng        *rand.Rand
	archive    RoundArchive
	onClose    func(code string)
	background *sync.WaitGroup
}

func newRoom(code string, mode internal.GameMode, host internal.Conn, deps roomDeps) *Room {
	if deps.clock == nil {
		deps.clock = SystemClock()
	}
	if deps.rng == nil {
		deps.rng = utils.NewRand(0)
	}
	if deps.background == nil {
		deps.background = &sync.WaitGroup{}
	}
	return &Room{
		Room:    internal.NewRoom(code, mode, host),
		cfg:     deps.cfg,
		catalog: deps.catalog,
		clock:   deps.clock,
		rng:     deps.rng,
		archive: deps.archive,
		onClose: deps.onClose,
		log:     log.With().Str("room", code).Logger(),

		background: deps.background,

		tasks: make(chan func(), roomInboxSize),
		done:  make(chan struct{}),
	}
}

// Run executes queued tasks until ctx is cancelled or the room closes itself.
func (r *Room) Run(ctx context.Context) {
	r.log.Info().Str("mode", string(r.Mode)).Msg("[Run] room started")
	defer r.teardown()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return
		case task := <-r.tasks:
			task()
		}
	}
}

// Submit queues task on the room. It blocks while the inbox is full and
// fails once the room has closed.
func (r *Room) Submit(task func()) error {
	select {
	case <-r.done:
		return ErrRoomClosed
	default:
	}
	select {
	case r.tasks <- task:
		return nil
	case <-r.done:
		return ErrRoomClosed
	}
}

// Done is closed when the room stops accepting tasks.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

func (r *Room) close() {
	r.closeOnce.Do(func() {
		close(r.done)
		if r.onClose != nil {
			r.onClose(r.Code)
		}
	})
}

func (r *Room) teardown() {
	r.close()
	r.cancelTimer()
	if r.Host != nil {
		r.Host.Close()
	}
	for _, p := range r.Players {
		if p.Conn != nil {
			p.Conn.Close()
		}
	}
	r.log.Info().Msg("[teardown] room closed")
}

func (r *Room) closeIfEmpty() {
	if r.Host == nil && len(r.Players) == 0 {
		r.log.Info().Msg("[closeIfEmpty] no host and no players left")
		r.close()
	}
}

// =============================================================================
// ROSTER
// =============================================================================

type joinResult struct {
	playerID string
	err      error
}

// Join adds a player through the actor and waits for the outcome.
func (r *Room) Join(ctx context.Context, name string, conn internal.Conn) (string, error) {
	reply := make(chan joinResult, 1)
	err := r.Submit(func() {
		id, err := r.join(name, conn)
		reply <- joinResult{id, err}
	})
	if err != nil {
		return "", err
	}
	select {
	case res := <-reply:
		return res.playerID, res.err
	case <-r.done:
		return "", ErrRoomClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (r *Room) join(name string, conn internal.Conn) (string, error) {
	if r.Phase != internal.PhaseLobby {
		return "", ErrGameInProgress
	}
	if len(r.Players) >= internal.MaxPlayersPerRoom {
		return "", ErrRoomFull
	}
	if name == "" {
		name = fmt.Sprintf("Player %d", r.Joined+1)
	}

	p := &internal.Player{
		Id:       utils.NewPlayerID(),
		Conn:     conn,
		Username: name,
		Color:    internal.Palette[r.Joined%len(internal.Palette)],
		JoinedAt: r.clock.Now(),
	}
	r.Joined++
	r.Players[p.Id] = p
	r.Order = append(r.Order, p.Id)

	r.log.Info().Str("player", p.Id).Msgf("[join] %s joined, players=%d", p.Username, len(r.Players))

	r.sendTo(conn, internal.NewMessage(internal.MsgJoined, internal.JoinedData{
		PlayerID: p.Id,
		Code:     r.Code,
		Color:    p.Color,
		Mode:     r.Mode,
		Players:  r.Snapshots(),
	}))
	r.broadcastAll(internal.NewMessage(internal.MsgPlayerJoined, internal.PlayerJoinedData{
		Player:      internal.CreatePlayerSnapshot(p),
		PlayerCount: len(r.Players),
		CanStart:    r.CanStartGame(),
	}))
	return p.Id, nil
}

// leave removes a disconnected player and repairs whatever phase the room
// is in.
func (r *Room) leave(pid string) {
	p, ok := r.Players[pid]
	if !ok {
		return
	}
	delete(r.Players, pid)
	r.Order = slices.DeleteFunc(r.Order, func(id string) bool { return id == pid })

	r.log.Info().Str("player", pid).Msgf("[leave] %s left during %s, players=%d", p.Username, r.Phase, len(r.Players))

	r.broadcastAll(internal.NewMessage(internal.MsgPlayerLeft, internal.PlayerLeftData{
		PlayerID:    pid,
		Username:    p.Username,
		PlayerCount: len(r.Players),
	}))

	switch {
	case r.Phase == internal.PhaseLobby:
	case len(r.Players) < internal.MinPlayersToStart:
		r.log.Info().Msg("[leave] too few players to continue, back to lobby")
		r.resetToLobby()
	default:
		r.afterDeparture(pid)
	}
	r.closeIfEmpty()
}

func (r *Room) hostLeft(conn internal.Conn) {
	if r.Host == nil || r.Host != conn {
		return
	}
	r.Host = nil
	r.log.Info().Msg("[hostLeft] host disconnected")
	r.closeIfEmpty()
}
