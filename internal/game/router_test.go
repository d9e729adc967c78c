package game

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/rhetoric-frontier/internal"
)

const eventually = 2 * time.Second

func newTestRouter(t *testing.T) (*Router, *Registry) {
	t.Helper()
	reg := NewRegistry(DefaultConfig(), testCatalog(), WithClock(newFakeClock()))
	t.Cleanup(reg.Shutdown)
	return NewRouter(reg), reg
}

func frame(t *testing.T, typ string, data any) []byte {
	t.Helper()
	b, err := json.Marshal(map[string]any{"type": typ, "data": data})
	require.NoError(t, err)
	return b
}

func hostRoom(t *testing.T, rt *Router, mode internal.GameMode) (*Session, *recorder, string) {
	t.Helper()
	conn := &recorder{}
	s := NewSession(conn)
	rt.Route(context.Background(), s, frame(t, "create_room", map[string]any{"mode": mode}))

	var created internal.RoomCreatedData
	conn.last(t, internal.MsgRoomCreated, &created)
	require.Len(t, created.Code, internal.RoomCodeLength)
	return s, conn, created.Code
}

func TestRouter_CreateAndJoin(t *testing.T) {
	rt, reg := newTestRouter(t)
	host, hostConn, code := hostRoom(t, rt, internal.ModeConquest)

	assert.Equal(t, RoleHost, host.Role())
	assert.Equal(t, code, host.RoomCode())
	assert.Equal(t, 1, reg.Count())

	conn := &recorder{}
	s := NewSession(conn)
	rt.Route(context.Background(), s, frame(t, "join_room", map[string]any{"code": strings.ToLower(code), "name": " Ada "}))

	require.Equal(t, RolePlayer, s.Role())
	var joined internal.JoinedData
	conn.last(t, internal.MsgJoined, &joined)
	assert.Equal(t, s.PlayerID(), joined.PlayerID)
	assert.Equal(t, internal.ModeConquest, joined.Mode)
	require.Len(t, joined.Players, 1)
	assert.Equal(t, "Ada", joined.Players[0].Username)

	var pj internal.PlayerJoinedData
	hostConn.last(t, internal.MsgPlayerJoined, &pj)
	assert.Equal(t, 1, pj.PlayerCount)
	assert.False(t, pj.CanStart)

	// a seated session cannot open or join another room
	rt.Route(context.Background(), s, frame(t, "create_room", nil))
	assert.Equal(t, 1, reg.Count())
}

func TestRouter_UnknownRoom(t *testing.T) {
	rt, _ := newTestRouter(t)
	conn := &recorder{}
	s := NewSession(conn)

	rt.Route(context.Background(), s, frame(t, "join_room", map[string]any{"code": "ZZZZZ"}))

	var e internal.ErrorData
	conn.last(t, internal.MsgError, &e)
	assert.Equal(t, "Room not found", e.Message)
	assert.Equal(t, RoleNone, s.Role())
}

func TestRouter_DropsMalformedFrames(t *testing.T) {
	rt, reg := newTestRouter(t)
	conn := &recorder{}
	s := NewSession(conn)

	for _, raw := range []string{
		`{not json`,
		`{"type":"dance"}`,
		`{"type":"join_room","data":{"code":""}}`,
		`{"type":"vote","data":{"target_id":7}}`,
	} {
		rt.Route(context.Background(), s, []byte(raw))
	}

	assert.Zero(t, conn.count(internal.MsgError))
	assert.Equal(t, RoleNone, s.Role())
	assert.Zero(t, reg.Count())
}

func TestRouter_RateLimit(t *testing.T) {
	rt, _ := newTestRouter(t)
	conn := &recorder{}
	s := NewSession(conn)

	for i := 0; i < 40; i++ {
		rt.Route(context.Background(), s, frame(t, "join_room", map[string]any{"code": "ZZZZZ"}))
	}

	n := conn.count(internal.MsgError)
	assert.GreaterOrEqual(t, n, commandBurst)
	assert.Less(t, n, 40)
}

func TestRouter_HostStartsGame(t *testing.T) {
	rt, _ := newTestRouter(t)
	host, hostConn, code := hostRoom(t, rt, internal.ModeClassic)

	p1 := NewSession(&recorder{})
	rt.Route(context.Background(), p1, frame(t, "join_room", map[string]any{"code": code}))
	require.Equal(t, RolePlayer, p1.Role())

	rt.Route(context.Background(), host, frame(t, "start_game", nil))
	assert.Eventually(t, func() bool { return hostConn.count(internal.MsgError) == 1 }, eventually, 10*time.Millisecond)

	p2 := NewSession(&recorder{})
	rt.Route(context.Background(), p2, frame(t, "join_room", map[string]any{"code": code}))

	// players cannot start the game
	rt.Route(context.Background(), p1, frame(t, "start_game", nil))
	rt.Route(context.Background(), host, frame(t, "start_game", nil))

	assert.Eventually(t, func() bool { return hostConn.count(internal.MsgPhase) == 1 }, eventually, 10*time.Millisecond)
	var phase internal.PhaseData
	hostConn.last(t, internal.MsgPhase, &phase)
	assert.Equal(t, internal.PhaseTopicSelect, phase.Phase)
	assert.Equal(t, 1, phase.Round)
}

func TestRouter_DisconnectsCloseTheRoom(t *testing.T) {
	rt, reg := newTestRouter(t)
	host, hostConn, code := hostRoom(t, rt, internal.ModeClassic)
	room := host.room

	player := NewSession(&recorder{})
	rt.Route(context.Background(), player, frame(t, "join_room", map[string]any{"code": code}))

	rt.Disconnect(player)
	rt.Disconnect(host)

	select {
	case <-room.Done():
	case <-time.After(eventually):
		t.Fatal("room did not close")
	}
	assert.Eventually(t, func() bool { return reg.Count() == 0 }, eventually, 10*time.Millisecond)
	assert.Equal(t, 1, hostConn.count(internal.MsgPlayerLeft))

	rt.Route(context.Background(), host, frame(t, "next_phase", nil))
	assert.Equal(t, RoleNone, host.Role())

	late := &recorder{}
	rt.Route(context.Background(), NewSession(late), frame(t, "join_room", map[string]any{"code": code}))
	var e internal.ErrorData
	late.last(t, internal.MsgError, &e)
	assert.Equal(t, "Room not found", e.Message)
}

func TestRegistry_ShutdownStopsRooms(t *testing.T) {
	reg := NewRegistry(DefaultConfig(), testCatalog(), WithClock(newFakeClock()))
	hosts := []*recorder{{}, {}}
	for _, h := range hosts {
		reg.CreateRoom(h, internal.ModeClassic)
	}
	require.Equal(t, 2, reg.Count())

	reg.Shutdown()

	assert.Zero(t, reg.Count())
	for _, h := range hosts {
		assert.True(t, h.closed)
	}
}
