// Package border builds the sink and source badges drawn beyond the
// boundary routers of a mesh.
//
// Every boundary side of every boundary core gets one glyph. A side with a
// border entry shows the entry's task ("T5"); a side without one gets an
// empty placeholder. Glyphs of one core come in North, East, South, West
// order, so a corner core always yields its two glyphs in the same order.
package border

import (
	"fmt"
	"strings"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/fonts"
	"github.com/matzehuels/meshview/pkg/render/mesh/bounds"
	"github.com/matzehuels/meshview/pkg/render/mesh/geometry"
	"github.com/matzehuels/meshview/pkg/topology"
)

// Glyph dimensions in pixels.
const (
	// Distance from the router centre to the near edge of a glyph. Boundary
	// paths end before it.
	Distance  = 325
	MinWidth  = 48.0
	MinHeight = 32.0
	Padding   = 16.0
	Radius    = 8.0
)

// Variant selects how a glyph is drawn.
type Variant uint8

const (
	Empty Variant = iota
	Sink
	Source
)

// Class returns the CSS class of the variant.
func (v Variant) Class() string {
	switch v {
	case Sink:
		return "sink"
	case Source:
		return "source"
	default:
		return "empty"
	}
}

func (v Variant) String() string { return v.Class() }

// Glyph is one badge beyond a boundary router.
type Glyph struct {
	ID        string
	Core      int
	Direction topology.Direction
	Variant   Variant
	Task      int    // valid unless Variant is Empty
	Text      string // "T<task>", empty for placeholders

	// Anchor is the router centre moved by Delta(Direction): the midpoint
	// of the glyph edge facing the router.
	Anchor geometry.Point
	Rect   bounds.Bounds
}

// Delta returns the offset from a router centre to the anchor of the glyph
// on side d.
func Delta(d topology.Direction) (dx, dy int32) {
	switch d {
	case topology.North:
		return 0, -Distance
	case topology.East:
		return Distance, 0
	case topology.South:
		return 0, Distance
	case topology.West:
		return -Distance, 0
	default:
		panic(topology.InvalidDirection(d))
	}
}

// Build returns the glyphs of every boundary core in core id order. Text is
// measured at fontSize. A border entry on a side that is not on the
// boundary is a [errors.TopologyMismatchError].
func Build(grid *geometry.Grid, groups []geometry.ProcessingGroup, t *topology.Topology, fontSize float64) ([]Glyph, error) {
	for _, id := range t.BorderCores() {
		for _, d := range topology.Directions {
			if _, ok := t.Borders[id][d]; ok && !t.OnBoundary(id, d) {
				return nil, &errors.TopologyMismatchError{CoreID: id, Direction: d.String(), Subject: "border entry", Detail: "side is not on the boundary"}
			}
		}
	}

	var glyphs []Glyph
	for _, g := range groups {
		pos := grid.Classify(g.Row, g.Column)
		for _, d := range pos.Boundary {
			glyphs = append(glyphs, build(g, d, t.Borders[g.ID], fontSize))
		}
	}
	return glyphs, nil
}

func build(g geometry.ProcessingGroup, d topology.Direction, entries map[topology.Direction]topology.BorderEntry, fontSize float64) Glyph {
	gl := Glyph{
		ID:        fmt.Sprintf("border-%d-%s", g.ID, strings.ToLower(d.String())),
		Core:      g.ID,
		Direction: d,
	}
	if e, ok := entries[d]; ok {
		gl.Task = e.Task
		gl.Text = fmt.Sprintf("T%d", e.Task)
		gl.Variant = Sink
		if e.Kind == topology.Source {
			gl.Variant = Source
		}
	}

	w := max(fonts.MeasureString(gl.Text, fontSize)+Padding, MinWidth)
	h := max(fontSize+Padding, MinHeight)

	dx, dy := Delta(d)
	gl.Anchor = g.RouterRect().Centre().Add(dx, dy)
	ax, ay := float64(gl.Anchor.X), float64(gl.Anchor.Y)

	switch d {
	case topology.North:
		gl.Rect = bounds.Bounds{X: ax - w/2, Y: ay - h, W: w, H: h}
	case topology.East:
		gl.Rect = bounds.Bounds{X: ax, Y: ay - h/2, W: w, H: h}
	case topology.South:
		gl.Rect = bounds.Bounds{X: ax - w/2, Y: ay, W: w, H: h}
	case topology.West:
		gl.Rect = bounds.Bounds{X: ax - w, Y: ay - h/2, W: w, H: h}
	}
	return gl
}
