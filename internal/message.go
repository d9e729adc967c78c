package internal

import (
	"github.com/scythe504/rhetoric-frontier/internal/catalog"
	"github.com/scythe504/rhetoric-frontier/internal/hexmap"
)

type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

func NewMessage[T any](msgType string, data T) Message[T] {
	return Message[T]{Type: msgType, Data: data}
}

// Outbound message types.
const (
	MsgRoomCreated         = "room_created"
	MsgJoined              = "joined"
	MsgPlayerJoined        = "player_joined"
	MsgPlayerLeft          = "player_left"
	MsgPhase               = "phase"
	MsgTimer               = "timer"
	MsgError               = "error"
	MsgTopicOptions        = "topic_options"
	MsgTopicChosen         = "topic_chosen"
	MsgHand                = "hand"
	MsgVoteCast            = "vote_cast"
	MsgVoteResults         = "vote_results"
	MsgCivChosen           = "civ_chosen"
	MsgAttackOptions       = "attack_options"
	MsgAttackDeclared      = "attack_declared"
	MsgDefenseOptions      = "defense_options"
	MsgDefenseResult       = "defense_result"
	MsgCancelVoteCast      = "cancel_vote_cast"
	MsgConfrontationResult = "confrontation_result"
	MsgRatingSubmitted     = "rating_submitted"
	MsgRatingResults       = "rating_results"
	MsgMapUpdate           = "map_update"
	MsgGameOver            = "game_over"
)

type ErrorData struct {
	Message string `json:"message"`
}

type RoomCreatedData struct {
	Code string   `json:"code"`
	Mode GameMode `json:"mode"`
}

type JoinedData struct {
	PlayerID string           `json:"player_id"`
	Code     string           `json:"code"`
	Color    string           `json:"color"`
	Mode     GameMode         `json:"mode"`
	Players  []PlayerSnapshot `json:"players"`
}

type PlayerJoinedData struct {
	Player      PlayerSnapshot `json:"player"`
	PlayerCount int            `json:"player_count"`
	CanStart    bool           `json:"can_start"`
}

type PlayerLeftData struct {
	PlayerID    string `json:"player_id"`
	Username    string `json:"username"`
	PlayerCount int    `json:"player_count"`
}

// PhaseData is the authoritative phase broadcast. Detail carries the
// phase-specific public payload.
type PhaseData struct {
	Phase   GamePhase        `json:"phase"`
	Round   int              `json:"round"`
	Mode    GameMode         `json:"mode"`
	Players []PlayerSnapshot `json:"players"`
	Detail  any              `json:"detail,omitempty"`
}

type TimerData struct {
	Phase      GamePhase `json:"phase"`
	ExpiresAt  int64     `json:"expires_at_ms"`
	DurationMs int64     `json:"duration_ms"`
	IsActive   bool      `json:"is_active"`
}

type TopicSelectDetail struct {
	Difficulty int `json:"difficulty"`
}

type TopicOptionsData struct {
	Options    []string `json:"options"`
	Difficulty int      `json:"difficulty"`
}

type TopicChosenData struct {
	PlayerID string `json:"player_id"`
	Chosen   int    `json:"chosen"`
	Total    int    `json:"total"`
}

type FallacyDealDetail struct {
	Difficulty int `json:"difficulty"`
	HandSize   int `json:"hand_size"`
}

type HandData struct {
	Cards []catalog.Fallacy `json:"cards"`
}

type SpeakerDetail struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	Topic    string `json:"topic"`
	Index    int    `json:"index"`
	Total    int    `json:"total"`
}

type CandidatesDetail struct {
	Candidates []string `json:"candidates"`
}

type VoteCastData struct {
	Voted int `json:"voted"`
	Total int `json:"total"`
}

type VoteResultsData struct {
	Votes  map[string]int `json:"votes"`
	Points map[string]int `json:"points"`
}

type CivSelectDetail struct {
	Civilizations []catalog.Civilization `json:"civilizations"`
}

type CivChosenData struct {
	PlayerID string `json:"player_id"`
	CivID    string `json:"civ_id"`
	Auto     bool   `json:"auto,omitempty"`
}

type RoundStartDetail struct {
	AttackerOrder []string `json:"attacker_order"`
}

type AttackerDetail struct {
	AttackerID string `json:"attacker_id"`
	DefenderID string `json:"defender_id,omitempty"`
}

type AttackOptionsData struct {
	Targets []AttackTarget    `json:"targets"`
	Hand    []catalog.Fallacy `json:"hand"`
}

type AttackDeclaredData struct {
	AttackerID string           `json:"attacker_id"`
	DefenderID string           `json:"defender_id"`
	Fact       *catalog.Fact    `json:"fact,omitempty"`
	Fallacy    *catalog.Fallacy `json:"fallacy,omitempty"`
}

type DefenseOptionsData struct {
	AttackerID string            `json:"attacker_id"`
	Fact       *catalog.Fact     `json:"fact,omitempty"`
	Hand       []catalog.Fallacy `json:"hand"`
}

type DefenseResultData struct {
	DefenderID string           `json:"defender_id"`
	Choice     DefenseKind      `json:"choice"`
	Fallacy    *catalog.Fallacy `json:"fallacy,omitempty"`
}

type CancelVoteDetail struct {
	AttackerID string `json:"attacker_id"`
	DefenderID string `json:"defender_id"`
	Eligible   int    `json:"eligible"`
}

type CancelVoteCastData struct {
	Voted    int `json:"voted"`
	Eligible int `json:"eligible"`
}

type ConfrontationResultData struct {
	Record SpeechRecord   `json:"record"`
	Deltas map[string]int `json:"deltas"`
}

type RatingDetail struct {
	TopCount   int      `json:"top_count"`
	Candidates []string `json:"candidates"`
}

type RatingSubmittedData struct {
	Submitted int `json:"submitted"`
	Total     int `json:"total"`
}

type RatingResultsData struct {
	TopCount int            `json:"top_count"`
	Points   map[string]int `json:"points"`
}

type MapStateDetail struct {
	Radius int            `json:"radius"`
	Cells  []hexmap.Cell  `json:"cells"`
	Quotas map[string]int `json:"quotas"`
}

type MapUpdateData struct {
	PlayerID  string   `json:"player_id"`
	Flipped   []string `json:"flipped"`
	Remaining int      `json:"remaining"`
}

type RoundSummaryDetail struct {
	Round       int            `json:"round"`
	LastRound   bool           `json:"last_round"`
	Scores      map[string]int `json:"scores"`
	RoundScores map[string]int `json:"round_scores"`
	Territory   map[string]int `json:"territory"`
	Speeches    []SpeechRecord `json:"speeches,omitempty"`
}

type Standing struct {
	PlayerID  string `json:"player_id"`
	Username  string `json:"username"`
	Score     int    `json:"score"`
	Territory int    `json:"territory"`
	Position  int    `json:"position"`
}

type GameOverData struct {
	Standings    []Standing `json:"standings"`
	RoundsPlayed int        `json:"rounds_played"`
}
