package game

import (
	"time"

	"github.com/scythe504/rhetoric-frontier/internal"
)

// =============================================================================
// TIMER MANAGEMENT
// =============================================================================

// armTimer replaces the room deadline. Expiry is delivered as a room task
// and dropped if another timer was armed or cancelled in the meantime.
func (r *Room) armTimer(d time.Duration, onExpire func()) {
	r.cancelTimer()

	r.timerSeq++
	seq := r.timerSeq
	now := r.clock.Now()

	stop := r.clock.AfterFunc(d, func() {
		_ = r.Submit(func() { r.fireTimer(seq, onExpire) })
	})
	r.Timer = &internal.GameTimer{
		Seq:       seq,
		Phase:     r.Phase,
		StartTime: now,
		Duration:  d,
		ExpiresAt: now.Add(d),
		Stop:      stop,
	}

	r.log.Debug().Msgf("[armTimer] %s expires in %v", r.Phase, d)
	r.broadcastAll(internal.NewMessage(internal.MsgTimer, internal.TimerData{
		Phase:      r.Phase,
		ExpiresAt:  r.Timer.ExpiresAt.UnixMilli(),
		DurationMs: d.Milliseconds(),
		IsActive:   true,
	}))
}

func (r *Room) fireTimer(seq uint64, onExpire func()) {
	if r.Timer == nil || r.Timer.Seq != seq {
		r.log.Debug().Uint64("seq", seq).Msg("[fireTimer] stale expiry dropped")
		return
	}
	r.Timer = nil
	r.log.Debug().Msgf("[fireTimer] %s deadline reached", r.Phase)
	onExpire()
}

// cancelTimer is a no-op when nothing is armed.
func (r *Room) cancelTimer() {
	if r.Timer == nil {
		return
	}
	if r.Timer.Stop != nil {
		r.Timer.Stop()
	}
	r.Timer = nil
}
