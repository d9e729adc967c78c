package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Command
	}{
		{"create defaults", `{"type":"create_room"}`, CreateRoom{}},
		{"create conquest", `{"type":"create_room","data":{"mode":"conquest"}}`, CreateRoom{Mode: ModeConquest}},
		{"join normalises", `{"type":"join_room","data":{"code":" abcde ","name":"  Ada "}}`, JoinRoom{Code: "ABCDE", Name: "Ada"}},
		{"start ignores data", `{"type":"start_game","data":{"x":1}}`, StartGame{}},
		{"vote", `{"type":"vote","data":{"target_id":"p1"}}`, Vote{TargetID: "p1"}},
		{"attack numeric card", `{"type":"choose_attack","data":{"defender_id":"p2","fact_id":"f","fallacy_id":4}}`,
			ChooseAttack{DefenderID: "p2", FactID: "f", FallacyID: 4}},
		{"attack string card", `{"type":"choose_attack","data":{"defender_id":"p2","fact_id":"f","fallacy_id":"4"}}`,
			ChooseAttack{DefenderID: "p2", FactID: "f", FallacyID: 4}},
		{"silence", `{"type":"defense_choice","data":{"choice":"silence"}}`, DefenseChoice{Choice: DefenseSilence}},
		{"rating", `{"type":"submit_rating","data":{"ranking":["a","b"]}}`, SubmitRating{Ranking: []string{"a", "b"}}},
		{"capture null data", `{"type":"capture","data":null}`, Capture{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCommand([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCommand_SpeakWithCard(t *testing.T) {
	got, err := DecodeCommand([]byte(`{"type":"defense_choice","data":{"choice":"speak","fallacy_id":"7"}}`))
	require.NoError(t, err)
	dc := got.(DefenseChoice)
	require.NotNil(t, dc.FallacyID)
	assert.Equal(t, FlexID(7), *dc.FallacyID)
}

func TestDecodeCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"not json", `{oops`, ErrMalformedCommand},
		{"unknown type", `{"type":"dance"}`, ErrUnknownCommand},
		{"join without code", `{"type":"join_room","data":{"name":"x"}}`, ErrMalformedCommand},
		{"bad defense", `{"type":"defense_choice","data":{"choice":"shout"}}`, ErrMalformedCommand},
		{"card not numeric", `{"type":"choose_attack","data":{"fallacy_id":"four"}}`, ErrMalformedCommand},
		{"card wrong kind", `{"type":"choose_attack","data":{"fallacy_id":true}}`, ErrMalformedCommand},
		{"wrong field type", `{"type":"choose_topic","data":{"index":"first"}}`, ErrMalformedCommand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCommand([]byte(tt.raw))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCountResponded_IgnoresDepartedPlayers(t *testing.T) {
	r := NewRoom("ABCDE", ModeClassic, nil)
	r.Players["a"] = &Player{Id: "a"}
	r.Players["b"] = &Player{Id: "b"}

	votes := map[string]string{"a": "b", "gone": "a"}
	assert.Equal(t, 1, CountResponded(r, votes))
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeConquest, ParseMode("conquest"))
	assert.Equal(t, ModeClassic, ParseMode("classic"))
	assert.Equal(t, ModeClassic, ParseMode(""))
}
