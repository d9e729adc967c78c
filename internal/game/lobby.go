package game

import (
	"slices"

	"github.com/scythe504/rhetoric-frontier/internal"
)

// =============================================================================
// LOBBY & GAME LIFECYCLE
// =============================================================================

// startGame begins round 1 of a new game. Scores start over; the board and
// the room's round counter carry on.
func (r *Room) startGame() error {
	if r.Phase != internal.PhaseLobby {
		return ErrGameInProgress
	}
	if !r.CanStartGame() {
		return ErrInsufficientPlayers
	}
	for _, p := range r.Players {
		p.Score = 0
	}
	r.RoundBase = r.Round

	r.log.Info().Msgf("[startGame] starting %s game with %d players", r.Mode, len(r.Players))
	r.startRound()
	return nil
}

func (r *Room) startRound() {
	r.Round++
	r.ResetRoundState()

	if r.Mode == internal.ModeConquest {
		r.startCivSelect()
		return
	}
	r.startTopicSelect()
}

func (r *Room) endGame() {
	standings := Standings(r.OrderedPlayers(), r.territory())
	r.log.Info().Msgf("[endGame] game over after %d rounds", r.GameRound())

	r.broadcastAll(internal.NewMessage(internal.MsgGameOver, internal.GameOverData{
		Standings:    standings,
		RoundsPlayed: r.GameRound(),
	}))
	r.resetToLobby()
}

// resetToLobby abandons whatever is in flight. Round numbering is kept.
func (r *Room) resetToLobby() {
	r.ResetRoundState()
	r.enterPhase(internal.PhaseLobby, nil)
}

func (r *Room) territory() map[string]int {
	if r.Board == nil {
		return map[string]int{}
	}
	return r.Board.Counts()
}

// Standings orders players by score, then territory, then join order.
func Standings(players []*internal.Player, territory map[string]int) []internal.Standing {
	standings := make([]internal.Standing, 0, len(players))
	for _, p := range players {
		standings = append(standings, internal.Standing{
			PlayerID:  p.Id,
			Username:  p.Username,
			Score:     p.Score,
			Territory: territory[p.Id],
		})
	}
	slices.SortStableFunc(standings, func(a, b internal.Standing) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return b.Territory - a.Territory
	})
	for i := range standings {
		standings[i].Position = i + 1
	}
	return standings
}
