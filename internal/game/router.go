package game

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/scythe504/rhetoric-frontier/internal"
)

const (
	commandRate  = 10
	commandBurst = 20
)

type Role int

const (
	RoleNone Role = iota
	RoleHost
	RolePlayer
)

// Session is the router's view of one connection. It is only touched by
// that connection's read loop.
type Session struct {
	conn     internal.Conn
	limiter  *rate.Limiter
	role     Role
	room     *Room
	playerID string
}

func NewSession(conn internal.Conn) *Session {
	return &Session{
		conn:    conn,
		limiter: rate.NewLimiter(commandRate, commandBurst),
	}
}

func (s *Session) Role() Role { return s.role }

func (s *Session) PlayerID() string { return s.playerID }

func (s *Session) RoomCode() string {
	if s.room == nil {
		return ""
	}
	return s.room.Code
}

type Router struct {
	registry *Registry
}

func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// Route decodes one inbound frame and dispatches it. Malformed frames and
// commands that do not fit the sender's role are dropped without a reply.
func (rt *Router) Route(ctx context.Context, s *Session, raw []byte) {
	if !s.limiter.Allow() {
		log.Debug().Str("room", s.RoomCode()).Msg("[Route] rate limited, frame dropped")
		return
	}
	cmd, err := internal.DecodeCommand(raw)
	if err != nil {
		log.Debug().Err(err).Str("room", s.RoomCode()).Msg("[Route] protocol error, frame dropped")
		return
	}

	switch c := cmd.(type) {
	case internal.CreateRoom:
		rt.createRoom(s, c)
	case internal.JoinRoom:
		rt.joinRoom(ctx, s, c)
	default:
		rt.forward(s, cmd)
	}
}

func (rt *Router) createRoom(s *Session, c internal.CreateRoom) {
	if s.role != RoleNone {
		return
	}
	room := rt.registry.CreateRoom(s.conn, internal.ParseMode(string(c.Mode)))
	s.role, s.room = RoleHost, room
	_ = s.conn.Send(internal.NewMessage(internal.MsgRoomCreated, internal.RoomCreatedData{
		Code: room.Code,
		Mode: room.Mode,
	}))
}

func (rt *Router) joinRoom(ctx context.Context, s *Session, c internal.JoinRoom) {
	if s.role != RoleNone {
		return
	}
	room, ok := rt.registry.Lookup(c.Code)
	if !ok {
		sendError(s.conn, ErrRoomNotFound)
		return
	}
	pid, err := room.Join(ctx, c.Name, s.conn)
	if err != nil {
		log.Info().Err(err).Str("room", c.Code).Msg("[joinRoom] join refused")
		sendError(s.conn, err)
		return
	}
	s.role, s.room, s.playerID = RolePlayer, room, pid
}

func (rt *Router) forward(s *Session, cmd internal.Command) {
	room := s.room
	if room == nil {
		return
	}
	var err error
	switch s.role {
	case RoleHost:
		conn := s.conn
		err = room.Submit(func() { room.handleHostCommand(conn, cmd) })
	case RolePlayer:
		pid := s.playerID
		err = room.Submit(func() { room.handlePlayerCommand(pid, cmd) })
	}
	if errors.Is(err, ErrRoomClosed) {
		s.room, s.role, s.playerID = nil, RoleNone, ""
	}
}

// Disconnect tells the session's room that its connection is gone.
func (rt *Router) Disconnect(s *Session) {
	room := s.room
	if room == nil {
		return
	}
	switch s.role {
	case RoleHost:
		conn := s.conn
		_ = room.Submit(func() { room.hostLeft(conn) })
	case RolePlayer:
		pid := s.playerID
		_ = room.Submit(func() { room.leave(pid) })
	}
}

func sendError(conn internal.Conn, err error) {
	_ = conn.Send(internal.NewMessage(internal.MsgError, internal.ErrorData{Message: userMessage(err)}))
}

// =============================================================================
// COMMAND DISPATCH (room goroutine)
// =============================================================================

func (r *Room) handleHostCommand(conn internal.Conn, cmd internal.Command) {
	if r.Host == nil || r.Host != conn {
		return
	}
	switch cmd.(type) {
	case internal.StartGame:
		if err := r.startGame(); err != nil {
			r.log.Info().Err(err).Msg("[handleHostCommand] start refused")
			r.sendError(conn, userMessage(err))
		}
	case internal.NextPhase:
		r.resolvePhase()
	}
}

func (r *Room) handlePlayerCommand(pid string, cmd internal.Command) {
	switch c := cmd.(type) {
	case internal.ChooseTopic:
		r.chooseTopic(pid, c.Index)
	case internal.SpeechDone:
		r.markSpeechDone(pid)
	case internal.Vote:
		r.vote(pid, c.TargetID)
	case internal.ChooseCiv:
		r.chooseCiv(pid, c.CivID)
	case internal.ChooseAttack:
		r.chooseAttack(pid, c)
	case internal.DefenseChoice:
		r.defenseChoice(pid, c)
	case internal.CancelVote:
		r.castCancelVote(pid, c.Cancel)
	case internal.SubmitRating:
		r.submitRating(pid, c.Ranking)
	case internal.Capture:
		r.capture(pid, c.Cells)
	case internal.CreateRoom, internal.JoinRoom, internal.StartGame, internal.NextPhase:
		// host and lobby commands have no meaning from a seated player
	default:
		r.log.Warn().Str("player", pid).Msgf("[handlePlayerCommand] unhandled command %s", cmd.Type())
	}
}
