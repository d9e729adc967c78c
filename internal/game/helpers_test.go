package game

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scythe504/rhetoric-frontier/internal"
	"github.com/scythe504/rhetoric-frontier/internal/catalog"
	"github.com/scythe504/rhetoric-frontier/internal/utils"
)

// --- fakeClock ---

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
	fired  int
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) func() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if t.stopped || t.fired {
			return false
		}
		t.stopped = true
		return true
	}
}

// Advance moves time forward and runs every timer that came due.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.fired += len(due)
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (c *fakeClock) Fired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fired
}

// --- recorder ---

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// recorder is an internal.Conn that keeps everything sent to it.
type recorder struct {
	mu     sync.Mutex
	msgs   []envelope
	closed bool
}

func (c *recorder) Send(msg any) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnClosed
	}
	c.msgs = append(c.msgs, env)
	return nil
}

func (c *recorder) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *recorder) count(typ string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range c.msgs {
		if m.Type == typ {
			n++
		}
	}
	return n
}

// last decodes the data of the most recent message of typ into v.
func (c *recorder) last(t *testing.T, typ string, v any) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.msgs) - 1; i >= 0; i-- {
		if c.msgs[i].Type == typ {
			require.NoError(t, json.Unmarshal(c.msgs[i].Data, v))
			return
		}
	}
	t.Fatalf("no %s message received", typ)
}

// phases lists every phase broadcast received, in order.
func (c *recorder) phases(t *testing.T) []internal.GamePhase {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []internal.GamePhase
	for _, m := range c.msgs {
		if m.Type != internal.MsgPhase {
			continue
		}
		var pd struct {
			Phase internal.GamePhase `json:"phase"`
		}
		require.NoError(t, json.Unmarshal(m.Data, &pd))
		out = append(out, pd.Phase)
	}
	return out
}

func (c *recorder) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = nil
}

// --- fixtures ---

func testCatalog() *catalog.Catalog {
	var fallacies []catalog.Fallacy
	for i := 1; i <= 12; i++ {
		fallacies = append(fallacies, catalog.Fallacy{ID: i, Name: fmt.Sprintf("Fallacy %d", i), Difficulty: (i-1)/3 + 1})
	}
	var topics []catalog.Topic
	for i := 1; i <= 40; i++ {
		topics = append(topics, catalog.Topic{Text: fmt.Sprintf("Topic %d", i), Difficulty: (i-1)%4 + 1})
	}
	civs := []catalog.Civilization{
		{ID: "rome", Name: "Rome"}, {ID: "egypt", Name: "Egypt"}, {ID: "greece", Name: "Greece"},
		{ID: "china", Name: "China"}, {ID: "maya", Name: "Maya"}, {ID: "vikings", Name: "Vikings"},
		{ID: "persia", Name: "Persia"}, {ID: "mongols", Name: "Mongols"},
	}
	var confrontations []catalog.Confrontation
	for i, a := range civs {
		for _, b := range civs[i+1:] {
			confrontations = append(confrontations, catalog.Confrontation{
				Civs: [2]string{a.ID, b.ID},
				Facts: []catalog.Fact{
					{ID: a.ID + "-" + b.ID + "-1", Attack: "attack 1", Defense: "defense 1"},
					{ID: a.ID + "-" + b.ID + "-2", Attack: "attack 2", Defense: "defense 2"},
				},
			})
		}
	}
	return catalog.New(fallacies, topics, civs, confrontations)
}

type fixture struct {
	room    *Room
	clock   *fakeClock
	host    *recorder
	ids     []string
	conns   map[string]*recorder
	removed []string
}

func newFixture(t *testing.T, mode internal.GameMode, players int, opts ...func(*Config)) *fixture {
	t.Helper()
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	f := &fixture{
		clock: newFakeClock(),
		host:  &recorder{},
		conns: make(map[string]*recorder),
	}
	f.room = newRoom("TEST1", mode, f.host, roomDeps{
		cfg:     cfg,
		catalog: testCatalog(),
		clock:   f.clock,
		rng:     utils.NewRand(7),
		onClose: func(code string) { f.removed = append(f.removed, code) },
	})
	for i := 0; i < players; i++ {
		conn := &recorder{}
		id, err := f.room.join(fmt.Sprintf("P%d", i+1), conn)
		require.NoError(t, err)
		f.ids = append(f.ids, id)
		f.conns[id] = conn
	}
	return f
}

func maxRounds(n int) func(*Config) {
	return func(c *Config) { c.MaxRounds = n }
}

// drain runs every queued room task on the test goroutine.
func (f *fixture) drain() {
	for {
		select {
		case task := <-f.room.tasks:
			task()
		default:
			return
		}
	}
}

// expire lets the current deadline lapse and processes the expiry.
func (f *fixture) expire(t *testing.T) {
	t.Helper()
	require.NotNil(t, f.room.Timer, "no deadline armed in %s", f.room.Phase)
	f.clock.Advance(f.room.Timer.Duration)
	f.drain()
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	require.NoError(t, f.room.startGame())
}

func (f *fixture) player(id string) *internal.Player {
	return f.room.Players[id]
}

// others returns every player id except the given ones, in join order.
func (f *fixture) others(except ...string) []string {
	skip := map[string]bool{}
	for _, id := range except {
		skip[id] = true
	}
	var out []string
	for _, id := range f.room.PlayerIDs() {
		if !skip[id] {
			out = append(out, id)
		}
	}
	return out
}
