package game

import (
	"github.com/scythe504/rhetoric-frontier/internal"
)

// broadcastAll delivers msg to the host and every player. A connection that
// cannot take the message is skipped.
func (r *Room) broadcastAll(msg any) {
	r.sendTo(r.Host, msg)
	for _, p := range r.OrderedPlayers() {
		r.sendTo(p.Conn, msg)
	}
}

// sendPrivate delivers msg to one player only.
func (r *Room) sendPrivate(pid string, msg any) {
	if p, ok := r.Players[pid]; ok {
		if err := p.SafeSend(msg); err != nil {
			r.log.Warn().Err(err).Str("player", pid).Msg("[sendPrivate] dropped message")
		}
	}
}

func (r *Room) sendTo(conn internal.Conn, msg any) {
	if conn == nil {
		return
	}
	if err := conn.Send(msg); err != nil {
		r.log.Warn().Err(err).Msg("[sendTo] dropped message")
	}
}

func (r *Room) sendError(conn internal.Conn, message string) {
	r.sendTo(conn, internal.NewMessage(internal.MsgError, internal.ErrorData{Message: message}))
}
