package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/rhetoric-frontier/internal"
)

const archiveTimeout = 5 * time.Second

// RoundArchive stores finished rounds. It is optional.
type RoundArchive interface {
	RecordRound(ctx context.Context, rec internal.RoundRecord) error
}

func (r *Room) roundRecord() internal.RoundRecord {
	scores := make(map[string]int, len(r.Players))
	for id, p := range r.Players {
		scores[id] = p.Score
	}
	roundScores := make(map[string]int, len(r.State.RoundScores))
	for id, v := range r.State.RoundScores {
		roundScores[id] = v
	}
	var territory map[string]int
	if r.Board != nil {
		territory = r.Board.Counts()
	}
	return internal.RoundRecord{
		RoomCode:    r.Code,
		Mode:        r.Mode,
		Round:       r.Round,
		Names:       r.Names(),
		Scores:      scores,
		RoundScores: roundScores,
		Territory:   territory,
		FinishedAt:  r.clock.Now(),
	}
}

// archiveRound hands a copy of the round to the archive off the actor, so
// a slow database never stalls the room. The write is counted on the
// room's background group, which Registry.Shutdown waits for.
func (r *Room) archiveRound() {
	if r.archive == nil {
		return
	}
	rec := r.roundRecord()
	r.background.Add(1)
	go func() {
		defer r.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := r.archive.RecordRound(ctx, rec); err != nil {
			log.Error().Err(err).Str("room", rec.RoomCode).Int("round", rec.Round).Msg("[archiveRound] failed to record round")
		}
	}()
}
