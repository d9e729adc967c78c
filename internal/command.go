package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type CommandType string

// Inbound message types.
const (
	CmdCreateRoom    CommandType = "create_room"
	CmdJoinRoom      CommandType = "join_room"
	CmdStartGame     CommandType = "start_game"
	CmdNextPhase     CommandType = "next_phase"
	CmdChooseTopic   CommandType = "choose_topic"
	CmdSpeechDone    CommandType = "speech_done"
	CmdVote          CommandType = "vote"
	CmdChooseCiv     CommandType = "choose_civ"
	CmdChooseAttack  CommandType = "choose_attack"
	CmdDefenseChoice CommandType = "defense_choice"
	CmdCancelVote    CommandType = "cancel_vote"
	CmdSubmitRating  CommandType = "submit_rating"
	CmdCapture       CommandType = "capture"
)

// Command is the closed set of client->server messages. Only the types in
// this file implement it.
type Command interface {
	Type() CommandType
}

type CreateRoom struct {
	Mode GameMode `json:"mode"`
}

type JoinRoom struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type StartGame struct{}

type NextPhase struct{}

type ChooseTopic struct {
	Index int `json:"index"`
}

type SpeechDone struct{}

type Vote struct {
	TargetID string `json:"target_id"`
}

type ChooseCiv struct {
	CivID string `json:"civ_id"`
}

type ChooseAttack struct {
	DefenderID string `json:"defender_id"`
	FactID     string `json:"fact_id"`
	FallacyID  FlexID `json:"fallacy_id"`
}

type DefenseChoice struct {
	Choice    DefenseKind `json:"choice"`
	FallacyID *FlexID     `json:"fallacy_id,omitempty"`
}

type CancelVote struct {
	Cancel bool `json:"cancel"`
}

type SubmitRating struct {
	Ranking []string `json:"ranking"`
}

type Capture struct {
	Cells []string `json:"cells"`
}

func (CreateRoom) Type() CommandType    { return CmdCreateRoom }
func (JoinRoom) Type() CommandType      { return CmdJoinRoom }
func (StartGame) Type() CommandType     { return CmdStartGame }
func (NextPhase) Type() CommandType     { return CmdNextPhase }
func (ChooseTopic) Type() CommandType   { return CmdChooseTopic }
func (SpeechDone) Type() CommandType    { return CmdSpeechDone }
func (Vote) Type() CommandType          { return CmdVote }
func (ChooseCiv) Type() CommandType     { return CmdChooseCiv }
func (ChooseAttack) Type() CommandType  { return CmdChooseAttack }
func (DefenseChoice) Type() CommandType { return CmdDefenseChoice }
func (CancelVote) Type() CommandType    { return CmdCancelVote }
func (SubmitRating) Type() CommandType  { return CmdSubmitRating }
func (Capture) Type() CommandType       { return CmdCapture }

// FlexID is a card id that clients send either as a JSON number or as a
// numeric string. Both decode to the same integer.
type FlexID int

func (f *FlexID) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*f = FlexID(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: id %s is neither number nor string", ErrMalformedCommand, b)
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("%w: id %q is not numeric", ErrMalformedCommand, s)
	}
	*f = FlexID(n)
	return nil
}

// DecodeCommand parses a raw client frame into its Command.
func DecodeCommand(raw []byte) (Command, error) {
	var base Message[json.RawMessage]
	if err := json.Unmarshal(raw, &base); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCommand, err)
	}

	switch CommandType(base.Type) {
	case CmdCreateRoom:
		return decodeData[CreateRoom](base.Data)
	case CmdJoinRoom:
		cmd, err := decodeData[JoinRoom](base.Data)
		if err != nil {
			return nil, err
		}
		cmd.Code = strings.ToUpper(strings.TrimSpace(cmd.Code))
		cmd.Name = strings.TrimSpace(cmd.Name)
		if cmd.Code == "" {
			return nil, fmt.Errorf("%w: join_room without code", ErrMalformedCommand)
		}
		return cmd, nil
	case CmdStartGame:
		return StartGame{}, nil
	case CmdNextPhase:
		return NextPhase{}, nil
	case CmdChooseTopic:
		return decodeData[ChooseTopic](base.Data)
	case CmdSpeechDone:
		return SpeechDone{}, nil
	case CmdVote:
		return decodeData[Vote](base.Data)
	case CmdChooseCiv:
		return decodeData[ChooseCiv](base.Data)
	case CmdChooseAttack:
		return decodeData[ChooseAttack](base.Data)
	case CmdDefenseChoice:
		cmd, err := decodeData[DefenseChoice](base.Data)
		if err != nil {
			return nil, err
		}
		if cmd.Choice != DefenseSpeak && cmd.Choice != DefenseSilence {
			return nil, fmt.Errorf("%w: defense choice %q", ErrMalformedCommand, cmd.Choice)
		}
		return cmd, nil
	case CmdCancelVote:
		return decodeData[CancelVote](base.Data)
	case CmdSubmitRating:
		return decodeData[SubmitRating](base.Data)
	case CmdCapture:
		return decodeData[Capture](base.Data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, base.Type)
}

func decodeData[T Command](data json.RawMessage) (T, error) {
	var cmd T
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return cmd, nil
	}
	if err := json.Unmarshal(data, &cmd); err != nil {
		return cmd, fmt.Errorf("%w: %w", ErrMalformedCommand, err)
	}
	return cmd, nil
}
