package game

import (
	"strings"
	"time"

	"github.com/scythe504/rhetoric-frontier/internal"
	"github.com/scythe504/rhetoric-frontier/internal/utils"
)

type Config struct {
	Durations internal.PhaseDurations
	MaxRounds int
	// Seed makes every room reproducible when non-zero.
	Seed uint64
}

func DefaultConfig() Config {
	return Config{
		Durations: internal.DefaultPhaseDurations(),
		MaxRounds: internal.DefaultMaxRounds,
	}
}

// ConfigFromEnv reads MAX_ROUNDS, RNG_SEED and <PHASE>_SECONDS, for example
// TOPIC_SELECT_SECONDS or CANCEL_VOTE_SECONDS.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	d := &cfg.Durations

	phases := []struct {
		phase internal.GamePhase
		field *time.Duration
	}{
		{internal.PhaseTopicSelect, &d.TopicSelect},
		{internal.PhaseFallacyDeal, &d.FallacyDeal},
		{internal.PhaseSpeech, &d.Speech},
		{internal.PhaseVote, &d.Vote},
		{internal.PhaseCivSelect, &d.CivSelect},
		{internal.PhaseRoundStart, &d.RoundStart},
		{internal.PhaseAttackPrep, &d.AttackPrep},
		{internal.PhaseDefense, &d.Defense},
		{internal.PhaseCancelVote, &d.CancelVote},
		{internal.PhaseRating, &d.Rating},
		{internal.PhaseMap, &d.Map},
		{internal.PhaseRoundEnd, &d.RoundEnd},
	}
	for _, p := range phases {
		key := strings.ToUpper(string(p.phase)) + "_SECONDS"
		*p.field = utils.GetEnvDuration(key, *p.field)
	}

	if n := utils.GetEnvInt("MAX_ROUNDS", cfg.MaxRounds); n > 0 {
		cfg.MaxRounds = n
	}
	cfg.Seed = utils.GetEnvUint64("RNG_SEED", 0)
	return cfg
}
