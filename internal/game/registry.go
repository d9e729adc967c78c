package game

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/rhetoric-frontier/internal"
	"github.com/scythe504/rhetoric-frontier/internal/catalog"
	"github.com/scythe504/rhetoric-frontier/internal/utils"
)

// Registry maps room codes to running rooms. It owns the room goroutines.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
	rng   *rand.Rand

	cfg     Config
	catalog *catalog.Catalog
	clock   Clock
	archive RoundArchive

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type RegistryOption func(*Registry)

func WithClock(c Clock) RegistryOption {
	return func(reg *Registry) { reg.clock = c }
}

func WithArchive(a RoundArchive) RegistryOption {
	return func(reg *Registry) { reg.archive = a }
}

func NewRegistry(cfg Config, cat *catalog.Catalog, opts ...RegistryOption) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	reg := &Registry{
		rooms:   make(map[string]*Room),
		rng:     utils.NewRand(cfg.Seed),
		cfg:     cfg,
		catalog: cat,
		clock:   SystemClock(),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

// CreateRoom starts a new lobby hosted by host under a fresh code.
func (reg *Registry) CreateRoom(host internal.Conn, mode internal.GameMode) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	code := utils.RoomCode(reg.rng, internal.RoomCodeLength)
	for reg.rooms[code] != nil {
		code = utils.RoomCode(reg.rng, internal.RoomCodeLength)
	}

	room := newRoom(code, mode, host, roomDeps{
		cfg:     reg.cfg,
		catalog: reg.catalog,
		clock:   reg.clock,
		rng:     utils.NewRand(reg.rng.Uint64()),
		archive:    reg.archive,
		onClose:    reg.Remove,
		background: &reg.wg,
	})
	reg.rooms[code] = room

	reg.wg.Add(1)
	go func() {
		defer reg.wg.Done()
		room.Run(reg.ctx)
	}()

	log.Info().Str("room", code).Int("rooms", len(reg.rooms)).Msg("[CreateRoom] room created")
	return room
}

func (reg *Registry) Lookup(code string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[code]
	return room, ok
}

func (reg *Registry) Remove(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.rooms[code]; ok {
		delete(reg.rooms, code)
		log.Info().Str("room", code).Int("rooms", len(reg.rooms)).Msg("[Remove] room removed")
	}
}

func (reg *Registry) Count() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}

// Shutdown stops every room and waits for their goroutines, including
// archive writes still in flight, to exit.
func (reg *Registry) Shutdown() {
	reg.cancel()
	reg.wg.Wait()
}
