package game

import (
	"github.com/scythe504/rhetoric-frontier/internal"
	"github.com/scythe504/rhetoric-frontier/internal/catalog"
	"github.com/scythe504/rhetoric-frontier/internal/hexmap"
)

// =============================================================================
// PHASE TRANSITIONS
// =============================================================================

// enterPhase switches phase, broadcasts it with its public detail and arms
// the phase deadline. Any pending deadline is superseded.
func (r *Room) enterPhase(phase internal.GamePhase, detail any) {
	r.cancelTimer()
	r.Phase = phase

	r.log.Info().Int("round", r.Round).Msgf("[enterPhase] -> %s", phase)
	r.broadcastAll(internal.NewMessage(internal.MsgPhase, internal.PhaseData{
		Phase:   phase,
		Round:   r.GameRound(),
		Mode:    r.Mode,
		Players: r.Snapshots(),
		Detail:  detail,
	}))

	if phase == internal.PhaseLobby {
		return
	}
	r.armTimer(r.cfg.Durations.For(phase), r.resolvePhase)
}

// resolvePhase applies the default resolution of the current phase and
// advances. Deadline expiry and the host's next_phase both land here.
func (r *Room) resolvePhase() {
	switch r.Phase {
	case internal.PhaseLobby:
	case internal.PhaseTopicSelect:
		r.resolveTopics()
	case internal.PhaseFallacyDeal:
		r.startSpeech()
	case internal.PhaseSpeech:
		r.advanceSpeaker()
	case internal.PhaseVote:
		r.resolveVote()
	case internal.PhaseCivSelect:
		r.resolveCivs()
	case internal.PhaseRoundStart:
		r.nextAttacker()
	case internal.PhaseAttackPrep:
		r.resolveAttackPrep()
	case internal.PhaseDefense:
		r.resolveSilence()
	case internal.PhaseCancelVote:
		r.resolveCancelVote()
	case internal.PhaseRating:
		r.resolveRating()
	case internal.PhaseMap:
		r.startRoundEnd()
	case internal.PhaseRoundEnd:
		r.finishRound()
	}
}

// afterDeparture re-runs the completion check of the current phase once a
// player has gone, so the rest of the room is not left waiting for them.
func (r *Room) afterDeparture(pid string) {
	switch r.Phase {
	case internal.PhaseTopicSelect:
		if r.allChoseTopic() {
			r.startFallacyDeal()
		}
	case internal.PhaseSpeech:
		if r.currentSpeaker() == pid {
			r.advanceSpeaker()
		}
	case internal.PhaseVote:
		if internal.CountResponded(r.Room, r.State.Votes) == len(r.Players) {
			r.resolveVote()
		}
	case internal.PhaseCivSelect:
		if r.allChoseCiv() {
			r.startRoundStart()
		}
	case internal.PhaseAttackPrep:
		if a := r.State.Attack; a != nil && a.AttackerID == pid {
			r.nextAttacker()
		}
	case internal.PhaseDefense:
		if a := r.State.Attack; a != nil && (a.AttackerID == pid || a.DefenderID == pid) {
			r.abandonConfrontation()
		}
	case internal.PhaseCancelVote:
		a := r.State.Attack
		switch {
		case a == nil:
		case a.DefenderID == pid:
			r.abandonConfrontation()
		case r.cancelVotesCast() >= r.cancelEligible():
			r.resolveCancelVote()
		}
	case internal.PhaseRating:
		if internal.CountResponded(r.Room, r.State.Ratings) == len(r.Players) {
			r.resolveRating()
		}
	case internal.PhaseMap:
		if r.allCaptured() {
			r.startRoundEnd()
		}
	}
}

// difficulty follows the room's round counter, which keeps counting across
// games, so content never gets easier within a room.
func (r *Room) difficulty() int {
	return catalog.DifficultyFor(r.Round)
}

func (r *Room) present(pid string) bool {
	_, ok := r.Players[pid]
	return ok
}

// presentOnly keeps the entries of players still in the room. Every tally
// counts only the responses of current members.
func presentOnly[V any](r *Room, responses map[string]V) map[string]V {
	out := make(map[string]V, len(responses))
	for pid, v := range responses {
		if r.present(pid) {
			out[pid] = v
		}
	}
	return out
}

// applyRound is the single scoring point of a round. The tally points join
// the round deltas collected so far, and the whole delta is then applied to
// each player's cumulative score, which never drops below zero.
func (r *Room) applyRound(points map[string]int) {
	for pid, pts := range points {
		if r.present(pid) {
			r.State.RoundScores[pid] += pts
		}
	}
	for pid, p := range r.Players {
		p.Score = max(0, p.Score+r.State.RoundScores[pid])
	}
}

// =============================================================================
// MAP
// =============================================================================

func (r *Room) startMap() {
	if r.Board == nil {
		r.Board = hexmap.Generate(r.PlayerIDs(), r.rng)
		r.log.Info().Int("radius", r.Board.Radius).Int("cells", r.Board.Len()).Msg("[startMap] board generated")
	}

	quotas := make(map[string]int, len(r.Players))
	for _, pid := range r.PlayerIDs() {
		q := max(0, r.State.RoundScores[pid])
		r.State.RoundScores[pid] = q
		quotas[pid] = q
	}

	r.enterPhase(internal.PhaseMap, internal.MapStateDetail{
		Radius: r.Board.Radius,
		Cells:  r.Board.Cells(),
		Quotas: quotas,
	})
	if r.allCaptured() {
		r.startRoundEnd()
	}
}

func (r *Room) capture(pid string, cells []string) {
	if r.Phase != internal.PhaseMap || !r.present(pid) || r.State.Captured[pid] {
		return
	}
	flipped, remaining := r.Board.Capture(pid, cells, r.State.RoundScores[pid])
	r.State.RoundScores[pid] = remaining
	r.State.Captured[pid] = true

	r.log.Debug().Str("player", pid).Msgf("[capture] flipped %d cells, %d left", len(flipped), remaining)
	r.broadcastAll(internal.NewMessage(internal.MsgMapUpdate, internal.MapUpdateData{
		PlayerID:  pid,
		Flipped:   flipped,
		Remaining: remaining,
	}))

	if r.allCaptured() {
		r.startRoundEnd()
	}
}

// allCaptured reports whether every player has either spent their capture
// or has nothing to spend.
func (r *Room) allCaptured() bool {
	for pid := range r.Players {
		if !r.State.Captured[pid] && r.State.RoundScores[pid] > 0 {
			return false
		}
	}
	return true
}

// =============================================================================
// ROUND END
// =============================================================================

func (r *Room) lastRound() bool {
	return r.GameRound() >= r.cfg.MaxRounds
}

func (r *Room) startRoundEnd() {
	scores := make(map[string]int, len(r.Players))
	for pid, p := range r.Players {
		scores[pid] = p.Score
	}
	var territory map[string]int
	if r.Board != nil {
		territory = r.Board.Counts()
	}

	r.enterPhase(internal.PhaseRoundEnd, internal.RoundSummaryDetail{
		Round:       r.GameRound(),
		LastRound:   r.lastRound(),
		Scores:      scores,
		RoundScores: r.State.RoundScores,
		Territory:   territory,
		Speeches:    r.State.Speeches,
	})
	r.archiveRound()
}

func (r *Room) finishRound() {
	if r.lastRound() {
		r.endGame()
		return
	}
	r.startRound()
}
