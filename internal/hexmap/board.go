// Package hexmap is the shared territory board: a hexagon of pointy-top
// cells laid out on an odd-r offset grid, seeded with one rim cluster per
// player and mutated only through Capture.
package hexmap

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sort"
)

type Cell struct {
	ID    string `json:"id"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Dist  int    `json:"dist"`
	Owner string `json:"owner,omitempty"`
}

type Board struct {
	Radius int
	Side   int

	cells []*Cell
	byID  map[string]*Cell
	byPos map[[2]int]*Cell
}

// neighbour offsets as {dCol, dRow}, indexed by row parity
var offsets = [2][6][2]int{
	{{+1, 0}, {0, -1}, {-1, -1}, {-1, 0}, {-1, +1}, {0, +1}},
	{{+1, 0}, {+1, -1}, {0, -1}, {-1, 0}, {0, +1}, {+1, +1}},
}

// RadiusFor sizes the board to the roster.
func RadiusFor(players int) int {
	switch {
	case players <= 3:
		return 5
	case players <= 5:
		return 6
	default:
		return 7
	}
}

// CellID is the stable identifier of the cell at row, col.
func CellID(row, col int) string {
	return fmt.Sprintf("c%d-%d", row, col)
}

// NewBoard lays out an unowned hexagon of the given radius.
func NewBoard(radius int) *Board {
	side := 2*radius + 1
	b := &Board{
		Radius: radius,
		Side:   side,
		byID:   make(map[string]*Cell),
		byPos:  make(map[[2]int]*Cell),
	}
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			d := distance(row, col, radius, radius)
			if d > radius {
				continue
			}
			c := &Cell{ID: CellID(row, col), Row: row, Col: col, Dist: d}
			b.cells = append(b.cells, c)
			b.byID[c.ID] = c
			b.byPos[[2]int{row, col}] = c
		}
	}
	return b
}

// Generate builds a board sized for playerIDs and seeds one cluster per
// player in roster order. All randomness comes from rng.
func Generate(playerIDs []string, rng *rand.Rand) *Board {
	b := NewBoard(RadiusFor(len(playerIDs)))
	b.seed(playerIDs, rng)
	return b
}

func toCube(row, col int) (x, y, z int) {
	x = col - (row-(row&1))/2
	z = row
	y = -x - z
	return x, y, z
}

func distance(r1, c1, r2, c2 int) int {
	x1, y1, z1 := toCube(r1, c1)
	x2, y2, z2 := toCube(r2, c2)
	return max(abs(x1-x2), abs(y1-y2), abs(z1-z2))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (b *Board) neighbors(c *Cell) []*Cell {
	out := make([]*Cell, 0, 6)
	for _, off := range offsets[c.Row&1] {
		if n, ok := b.byPos[[2]int{c.Row + off[1], c.Col + off[0]}]; ok {
			out = append(out, n)
		}
	}
	return out
}

// angle of the cell centre around the board centre, in [0, 2π)
func (b *Board) angle(c *Cell) float64 {
	px := func(row, col int) float64 {
		return math.Sqrt(3) * (float64(col) + 0.5*float64(row&1))
	}
	dx := px(c.Row, c.Col) - px(b.Radius, b.Radius)
	dy := 1.5 * float64(c.Row-b.Radius)
	a := math.Atan2(dy, dx)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func angularDistance(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

// Ring returns the outer rim cells sorted by angle.
func (b *Board) Ring() []*Cell {
	var ring []*Cell
	for _, c := range b.cells {
		if c.Dist == b.Radius {
			ring = append(ring, c)
		}
	}
	sort.SliceStable(ring, func(i, j int) bool { return b.angle(ring[i]) < b.angle(ring[j]) })
	return ring
}

// ClusterTarget is the seeded territory size per player.
func ClusterTarget(ringCells, players int) int {
	if players <= 0 {
		return 0
	}
	return max(3, ringCells/players-1)
}

func (b *Board) seed(playerIDs []string, rng *rand.Rand) {
	n := len(playerIDs)
	if n == 0 {
		return
	}
	ring := b.Ring()

	anchors := make([]*Cell, n)
	for i, pid := range playerIDs {
		target := 2 * math.Pi * float64(i) / float64(n)
		var best *Cell
		bestDist := math.Inf(1)
		for _, c := range ring {
			if c.Owner != "" {
				continue
			}
			if d := angularDistance(b.angle(c), target); d < bestDist {
				best, bestDist = c, d
			}
		}
		if best == nil {
			break
		}
		best.Owner = pid
		anchors[i] = best
	}

	target := ClusterTarget(len(ring), n)
	for i, pid := range playerIDs {
		if anchors[i] != nil {
			b.grow(pid, anchors[i], target, rng)
		}
	}
}

// grow claims neutral cells best-first from anchor, farthest from the
// centre first, until the cluster reaches target or the frontier empties.
// Cells owned by anyone else are never entered.
func (b *Board) grow(pid string, anchor *Cell, target int, rng *rand.Rand) {
	owned := 1
	seen := map[string]bool{anchor.ID: true}
	var frontier []*Cell

	push := func(from *Cell) {
		nbrs := b.neighbors(from)
		if rng != nil {
			rng.Shuffle(len(nbrs), func(i, j int) { nbrs[i], nbrs[j] = nbrs[j], nbrs[i] })
		}
		for _, nb := range nbrs {
			if seen[nb.ID] || nb.Owner != "" {
				continue
			}
			seen[nb.ID] = true
			frontier = append(frontier, nb)
		}
	}

	push(anchor)
	for owned < target && len(frontier) > 0 {
		best := 0
		for i, c := range frontier {
			if c.Dist > frontier[best].Dist {
				best = i
			}
		}
		cur := frontier[best]
		frontier = slices.Delete(frontier, best, best+1)
		if cur.Owner != "" {
			continue
		}
		cur.Owner = pid
		owned++
		push(cur)
	}
}

func (b *Board) ownsNeighbor(c *Cell, pid string) bool {
	for _, nb := range b.neighbors(c) {
		if nb.Owner == pid {
			return true
		}
	}
	return false
}

// Capture flips requested cells to pid in order. A cell flips only when
// pid does not own it yet, pid owns one of its neighbours (earlier flips in
// the same call count) and quota remains. Anything else is skipped.
func (b *Board) Capture(pid string, cellIDs []string, quota int) (flipped []string, remaining int) {
	remaining = max(quota, 0)
	for _, id := range cellIDs {
		if remaining == 0 {
			break
		}
		c, ok := b.byID[id]
		if !ok || c.Owner == pid || !b.ownsNeighbor(c, pid) {
			continue
		}
		c.Owner = pid
		flipped = append(flipped, id)
		remaining--
	}
	return flipped, remaining
}

// Cells returns a copy of every cell in row-major order.
func (b *Board) Cells() []Cell {
	out := make([]Cell, len(b.cells))
	for i, c := range b.cells {
		out[i] = *c
	}
	return out
}

func (b *Board) Cell(id string) (Cell, bool) {
	c, ok := b.byID[id]
	if !ok {
		return Cell{}, false
	}
	return *c, true
}

func (b *Board) Len() int {
	return len(b.cells)
}

func (b *Board) Neighbors(id string) []string {
	c, ok := b.byID[id]
	if !ok {
		return nil
	}
	nbrs := b.neighbors(c)
	ids := make([]string, len(nbrs))
	for i, nb := range nbrs {
		ids[i] = nb.ID
	}
	return ids
}

func (b *Board) Owned(pid string) []string {
	var ids []string
	for _, c := range b.cells {
		if c.Owner == pid {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Counts is the number of cells held per owner. Neutral cells are not counted.
func (b *Board) Counts() map[string]int {
	counts := make(map[string]int)
	for _, c := range b.cells {
		if c.Owner != "" {
			counts[c.Owner]++
		}
	}
	return counts
}
