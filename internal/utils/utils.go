package utils

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// RANDOMNESS
// =============================================================================

// NewRand returns a PCG-backed source. A zero seed picks one from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Shuffle returns a shuffled copy of items.
func Shuffle[T any](r *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Sample draws n distinct positions of items in random order. n is clamped
// to len(items).
func Sample[T any](r *rand.Rand, items []T, n int) []T {
	n = max(0, min(n, len(items)))
	return Shuffle(r, items)[:n]
}

func Pick[T any](r *rand.Rand, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[r.IntN(len(items))], true
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

// no 0/O or 1/I so codes survive being read aloud
const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func RoomCode(r *rand.Rand, n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for range n {
		sb.WriteByte(roomCodeAlphabet[r.IntN(len(roomCodeAlphabet))])
	}
	return sb.String()
}

func NewPlayerID() string {
	return uuid.NewString()
}
