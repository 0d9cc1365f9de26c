package cluster

import (
	"math"

	"github.com/argus-vis/threatglobe/internal/geo"
)

// EstimatedPointsPerCell is used for initial grid capacity estimation.
const EstimatedPointsPerCell = 4

// spatialGrid buckets world-space points into a uniform 3-D grid.
// Cell size is a tunable constant independent of camera distance; see the
// package tuning notes for the consequences at mid-range zoom.
type spatialGrid struct {
	CellSize float64
	Cells    map[uint64][]int // cell ID → record indices, insertion-ordered
	order    []uint64         // cell IDs in first-seen order
}

func newSpatialGrid(cellSize float64) *spatialGrid {
	return &spatialGrid{
		CellSize: cellSize,
		Cells:    make(map[uint64][]int),
	}
}

// Insert assigns the point at index idx to its grid cell.
func (g *spatialGrid) Insert(p geo.Vec3, idx int) {
	id := g.cellID(p)
	if _, seen := g.Cells[id]; !seen {
		g.order = append(g.order, id)
	}
	g.Cells[id] = append(g.Cells[id], idx)
}

// CellsInOrder visits every cell in first-seen insertion order. Map iteration
// order is runtime-dependent, and truncation and tie-break policies must not
// be; all consumers walk cells through here.
func (g *spatialGrid) CellsInOrder(visit func(members []int)) {
	for _, id := range g.order {
		visit(g.Cells[id])
	}
}

// cellID computes a unique identifier for the cell containing p.
// Signed cell coordinates are zigzag-encoded to non-negative integers, then
// combined with Szudzik's pairing function applied twice (x with y, then
// with z). Collision-free for any cell the globe can produce.
func (g *spatialGrid) cellID(p geo.Vec3) uint64 {
	cx := zigzag(int64(math.Floor(p.X / g.CellSize)))
	cy := zigzag(int64(math.Floor(p.Y / g.CellSize)))
	cz := zigzag(int64(math.Floor(p.Z / g.CellSize)))
	return szudzik(szudzik(cx, cy), cz)
}

// zigzag maps signed integers to non-negative: 0,-1,1,-2,2 → 0,1,2,3,4.
func zigzag(v int64) uint64 {
	if v >= 0 {
		return uint64(2 * v)
	}
	return uint64(-2*v - 1)
}

// szudzik is Szudzik's elegant pairing function.
func szudzik(a, b uint64) uint64 {
	if a >= b {
		return a*a + a + b
	}
	return a + b*b
}
