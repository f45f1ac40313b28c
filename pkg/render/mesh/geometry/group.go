package geometry

import (
	"fmt"
	"strings"

	"github.com/matzehuels/meshview/pkg/topology"
)

// ProcessingGroup is one placed core and router.
type ProcessingGroup struct {
	ID          int
	Row, Column int
	Origin      Point // top-left corner of the core
}

// CoreID returns the element id of the core shape.
func (p ProcessingGroup) CoreID() string { return fmt.Sprintf("core-%d", p.ID) }

// RouterID returns the element id of the router shape.
func (p ProcessingGroup) RouterID() string { return fmt.Sprintf("router-%d", p.ID) }

// ClipID returns the id of the clip path that cuts the router corner out of the core.
func (p ProcessingGroup) ClipID() string { return fmt.Sprintf("clip-core-%d", p.ID) }

// CoreRect returns the bounding box of the core.
func (p ProcessingGroup) CoreRect() Rect {
	return Rect{X: p.Origin.X, Y: p.Origin.Y, W: CoreSide, H: CoreSide}
}

// CorePoints returns the six corners of the core outline, clockwise from
// the top-left.
func (p ProcessingGroup) CorePoints() [6]Point {
	o := p.Origin
	return [6]Point{
		o,
		o.Add(CoreSide, 0),
		o.Add(CoreSide, RouterOffset),
		o.Add(RouterOffset, RouterOffset),
		o.Add(RouterOffset, CoreSide),
		o.Add(0, CoreSide),
	}
}

// CorePath returns the core outline as SVG path data.
func (p ProcessingGroup) CorePath() string {
	var b strings.Builder
	for i, pt := range p.CorePoints() {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		fmt.Fprintf(&b, "%d %d", pt.X, pt.Y)
	}
	b.WriteString(" Z")
	return b.String()
}

// RouterRect returns the router square.
func (p ProcessingGroup) RouterRect() Rect {
	return Rect{X: satAdd(p.Origin.X, RouterOffset), Y: satAdd(p.Origin.Y, RouterOffset), W: RouterSide, H: RouterSide}
}

// RouterEdge returns the midpoint of the router side facing d.
func (p ProcessingGroup) RouterEdge(d topology.Direction) Point {
	return p.RouterRect().Centre().Step(d, RouterSide/2)
}

// BlockRect returns the footprint of the whole block.
func (p ProcessingGroup) BlockRect() Rect {
	return Rect{X: p.Origin.X, Y: p.Origin.Y, W: BlockLength, H: BlockLength}
}

// PositionKind classifies a block by how many of its sides face off the grid.
type PositionKind uint8

const (
	Interior PositionKind = iota
	EdgeSide
	EdgeCorner
)

func (k PositionKind) String() string {
	switch k {
	case Interior:
		return "Interior"
	case EdgeSide:
		return "EdgeSide"
	case EdgeCorner:
		return "EdgeCorner"
	}
	return fmt.Sprintf("PositionKind(%d)", uint8(k))
}

// Position is a block's relation to the grid boundary.
type Position struct {
	Kind     PositionKind
	Boundary []topology.Direction // in North, East, South, West order
}

// OnBoundary reports whether side d faces off the grid.
func (p Position) OnBoundary(d topology.Direction) bool {
	for _, b := range p.Boundary {
		if b == d {
			return true
		}
	}
	return false
}

// Classify returns the position of block (row, column). A block with two or
// more boundary sides is a corner; single-row and single-column grids
// produce corners with three sides, and a 1×1 grid one with four.
func (g *Grid) Classify(row, column int) Position {
	var pos Position
	for _, d := range topology.Directions {
		var off bool
		switch d {
		case topology.North:
			off = row == 0
		case topology.East:
			off = column == g.Columns-1
		case topology.South:
			off = row == g.Rows-1
		case topology.West:
			off = column == 0
		}
		if off {
			pos.Boundary = append(pos.Boundary, d)
		}
	}
	switch len(pos.Boundary) {
	case 0:
		pos.Kind = Interior
	case 1:
		pos.Kind = EdgeSide
	default:
		pos.Kind = EdgeCorner
	}
	return pos
}
