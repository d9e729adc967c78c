package internal

import (
	"time"

	"github.com/scythe504/rhetoric-frontier/internal/catalog"
)

const (
	MaxPlayersPerRoom     = 8
	MinPlayersToStart     = 2
	TopicOptionsPerPlayer = 3
	HandSize              = 3
	DefaultMaxRounds      = 6
	RoomCodeLength        = 5
)

type GamePhase string

const (
	PhaseLobby GamePhase = "lobby"

	// classic mode
	PhaseTopicSelect GamePhase = "topic_select"
	PhaseFallacyDeal GamePhase = "fallacy_deal"
	PhaseSpeech      GamePhase = "speech"
	PhaseVote        GamePhase = "vote"

	// conquest mode
	PhaseCivSelect  GamePhase = "civ_select"
	PhaseRoundStart GamePhase = "round_start"
	PhaseAttackPrep GamePhase = "attack_prep"
	PhaseDefense    GamePhase = "defense"
	PhaseCancelVote GamePhase = "cancel_vote"
	PhaseRating     GamePhase = "rating"

	PhaseMap      GamePhase = "map"
	PhaseRoundEnd GamePhase = "round_end"
)

type GameMode string

const (
	ModeClassic  GameMode = "classic"
	ModeConquest GameMode = "conquest"
)

// ParseMode falls back to classic for anything it does not recognise.
func ParseMode(s string) GameMode {
	if GameMode(s) == ModeConquest {
		return ModeConquest
	}
	return ModeClassic
}

// Palette is handed out round-robin in join order.
var Palette = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c",
}

type PhaseDurations struct {
	TopicSelect time.Duration
	FallacyDeal time.Duration
	Speech      time.Duration
	Vote        time.Duration
	CivSelect   time.Duration
	RoundStart  time.Duration
	AttackPrep  time.Duration
	Defense     time.Duration
	CancelVote  time.Duration
	Rating      time.Duration
	Map         time.Duration
	RoundEnd    time.Duration
}

func DefaultPhaseDurations() PhaseDurations {
	return PhaseDurations{
		TopicSelect: 30 * time.Second,
		FallacyDeal: 15 * time.Second,
		Speech:      60 * time.Second,
		Vote:        30 * time.Second,
		CivSelect:   30 * time.Second,
		RoundStart:  5 * time.Second,
		AttackPrep:  30 * time.Second,
		Defense:     30 * time.Second,
		CancelVote:  20 * time.Second,
		Rating:      45 * time.Second,
		Map:         45 * time.Second,
		RoundEnd:    10 * time.Second,
	}
}

// For returns the deadline armed when a room enters phase.
func (d PhaseDurations) For(phase GamePhase) time.Duration {
	switch phase {
	case PhaseTopicSelect:
		return d.TopicSelect
	case PhaseFallacyDeal:
		return d.FallacyDeal
	case PhaseSpeech:
		return d.Speech
	case PhaseVote:
		return d.Vote
	case PhaseCivSelect:
		return d.CivSelect
	case PhaseRoundStart:
		return d.RoundStart
	case PhaseAttackPrep:
		return d.AttackPrep
	case PhaseDefense:
		return d.Defense
	case PhaseCancelVote:
		return d.CancelVote
	case PhaseRating:
		return d.Rating
	case PhaseMap:
		return d.Map
	case PhaseRoundEnd:
		return d.RoundEnd
	}
	return 0
}

type GameTimer struct {
	Seq       uint64        `json:"-"`
	Phase     GamePhase     `json:"phase"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	ExpiresAt time.Time     `json:"expires_at"`
	Stop      func() bool   `json:"-"`
}

type DefenseKind string

const (
	DefenseSpeak   DefenseKind = "speak"
	DefenseSilence DefenseKind = "silence"
)

type ConfrontationOutcome string

const (
	OutcomeSilenced  ConfrontationOutcome = "silenced"
	OutcomeCancelled ConfrontationOutcome = "cancelled"
	OutcomeUpheld    ConfrontationOutcome = "upheld"
	OutcomeAbandoned ConfrontationOutcome = "abandoned"
)

// AttackTarget is one defender an attacker may pick, with the facts for
// their civilization pair.
type AttackTarget struct {
	PlayerID     string         `json:"player_id"`
	Username     string         `json:"username"`
	Civilization string         `json:"civilization"`
	Facts        []catalog.Fact `json:"facts"`
}

// Attack is the single confrontation in flight during attack_prep,
// defense and cancel_vote.
type Attack struct {
	AttackerID   string            `json:"attacker_id"`
	DefenderID   string            `json:"defender_id,omitempty"`
	FactID       string            `json:"fact_id,omitempty"`
	FallacyID    int               `json:"fallacy_id,omitempty"`
	Defense      DefenseKind       `json:"defense,omitempty"`
	DefenseCard  int               `json:"defense_card,omitempty"`
	Targets      []AttackTarget    `json:"-"`
	AttackerHand []catalog.Fallacy `json:"-"`
	DefenderHand []catalog.Fallacy `json:"-"`
}

// SpeechRecord is the committed log entry of a finished confrontation.
type SpeechRecord struct {
	Round       int                  `json:"round"`
	AttackerID  string               `json:"attacker_id"`
	DefenderID  string               `json:"defender_id"`
	FactID      string               `json:"fact_id,omitempty"`
	FallacyID   int                  `json:"fallacy_id,omitempty"`
	DefenseCard int                  `json:"defense_card,omitempty"`
	Outcome     ConfrontationOutcome `json:"outcome"`
	CancelVotes int                  `json:"cancel_votes"`
	Eligible    int                  `json:"eligible"`
}

// RoundRecord is what gets archived once a round ends.
type RoundRecord struct {
	RoomCode    string            `json:"room_code"`
	Mode        GameMode          `json:"mode"`
	Round       int               `json:"round"`
	Names       map[string]string `json:"names"`
	Scores      map[string]int    `json:"scores"`
	RoundScores map[string]int    `json:"round_scores"`
	Territory   map[string]int    `json:"territory"`
	FinishedAt  time.Time         `json:"finished_at"`
}

type Response struct {
	StatusCode    int   `json:"status_code"`
	RespStartTime int64 `json:"resp_time_start_ms"`
	RespEndTime   int64 `json:"resp_time_end_ms"`
	NetRespTime   int64 `json:"net_resp_time_ms"`
	Data          any   `json:"data"`
}
