// Package geometry places processing groups on the absolute pixel grid of a
// mesh diagram.
//
// Every block holds a core and its router. The router overlaps the core's
// bottom-right corner by [RouterOffset]; the core outline is a six-point
// polygon that leaves that corner to the router so the two shapes tile
// without overlap:
//
//	(0,0)───────────(100,0)
//	  │                │
//	  │     core       │
//	  │          (75,75)──(100,75)
//	  │             │ ┌──────────┐
//	(0,100)───(75,100)│  router  │
//	                  └──────────┘
//
// Blocks are [Pitch] pixels apart in both axes and the whole grid is
// centred on the origin. All arithmetic saturates at the int32 range so
// pathological grid sizes produce clamped coordinates instead of panics.
package geometry

import (
	"fmt"
	"math"

	"github.com/matzehuels/meshview/pkg/topology"
)

// Block dimensions in pixels.
const (
	CoreSide      = 100
	RouterSide    = 100
	RouterOffset  = 75
	BlockLength   = RouterOffset + RouterSide // 175
	BlockDistance = 150
	Pitch         = BlockLength + BlockDistance // 325
)

// Point is an absolute pixel position.
type Point struct {
	X, Y int32
}

// Add returns p moved by (dx, dy).
func (p Point) Add(dx, dy int32) Point {
	return Point{X: satAdd(p.X, dx), Y: satAdd(p.Y, dy)}
}

// Step returns p moved n pixels towards d.
func (p Point) Step(d topology.Direction, n int32) Point {
	dx, dy := Unit(d)
	return p.Add(satMul(dx, n), satMul(dy, n))
}

func (p Point) String() string { return fmt.Sprintf("%d,%d", p.X, p.Y) }

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H int32
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() int32 { return satAdd(r.X, r.W) }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() int32 { return satAdd(r.Y, r.H) }

// Centre returns the centre point of r.
func (r Rect) Centre() Point { return Point{X: satAdd(r.X, r.W/2), Y: satAdd(r.Y, r.H/2)} }

// Unit returns the screen-space unit vector of d. North points up (negative y).
func Unit(d topology.Direction) (dx, dy int32) {
	switch d {
	case topology.North:
		return 0, -1
	case topology.East:
		return 1, 0
	case topology.South:
		return 0, 1
	case topology.West:
		return -1, 0
	default:
		panic(topology.InvalidDirection(d))
	}
}

// Left returns the direction on the left-hand side of someone travelling
// towards d. Connections are drawn on the left of their travel direction, so
// the two links between a pair of routers never share a line.
func Left(d topology.Direction) topology.Direction {
	switch d {
	case topology.North:
		return topology.West
	case topology.East:
		return topology.North
	case topology.South:
		return topology.East
	case topology.West:
		return topology.South
	default:
		panic(topology.InvalidDirection(d))
	}
}

// Grid is the block layout of a rows × columns mesh.
type Grid struct {
	Rows, Columns int

	offset Point
	width  int32
	height int32
}

// NewGrid computes the layout of a rows × columns mesh centred on (0,0).
// Non-positive dimensions produce an empty grid.
func NewGrid(rows, columns int) *Grid {
	g := &Grid{Rows: max(rows, 0), Columns: max(columns, 0)}
	g.width = extent(g.Columns)
	g.height = extent(g.Rows)
	g.offset = Point{X: -g.width / 2, Y: -g.height / 2}
	return g
}

// extent is the pixel span of n blocks: n pitches minus the trailing gap.
func extent(n int) int32 {
	if n <= 0 {
		return 0
	}
	return satSub(satMul(clamp32(int64(n)), Pitch), BlockDistance)
}

// Offset returns the top-left corner of block (0,0).
func (g *Grid) Offset() Point { return g.offset }

// Size returns the pixel width and height covered by the blocks.
func (g *Grid) Size() (width, height int32) { return g.width, g.height }

// Bounds returns the rectangle covered by the blocks.
func (g *Grid) Bounds() Rect {
	return Rect{X: g.offset.X, Y: g.offset.Y, W: g.width, H: g.height}
}

// Place returns the processing group for core id at (row, column).
func (g *Grid) Place(id, row, column int) ProcessingGroup {
	origin := g.offset.Add(
		satMul(clamp32(int64(column)), Pitch),
		satMul(clamp32(int64(row)), Pitch),
	)
	return ProcessingGroup{ID: id, Row: row, Column: column, Origin: origin}
}

// PlaceAll places every core of t in id order.
func (g *Grid) PlaceAll(t *topology.Topology) []ProcessingGroup {
	groups := make([]ProcessingGroup, 0, len(t.Cores))
	for _, c := range t.Cores {
		groups = append(groups, g.Place(c.ID, c.Row, c.Column))
	}
	return groups
}

func clamp32(v int64) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}

func satAdd(a, b int32) int32 { return clamp32(int64(a) + int64(b)) }
func satSub(a, b int32) int32 { return clamp32(int64(a) - int64(b)) }
func satMul(a, b int32) int32 { return clamp32(int64(a) * int64(b)) }
