// Package connection routes the links between routers and towards the grid
// boundary.
//
// Every wired direction of a core gets an output path ([Out]). A direction
// that faces off the grid gets a second, incoming path ([Source]) for
// traffic entering the mesh there. Records live in one arena; the
// (core, direction, role) lookup map stores arena indices.
//
// Paths are drawn on the left-hand side of their travel direction, so the
// two links between neighbouring routers, and the output and source paths of
// a boundary side, never share a line.
package connection

import (
	"fmt"
	"strings"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/render/mesh/geometry"
	"github.com/matzehuels/meshview/pkg/topology"
)

// Path dimensions in pixels.
const (
	// Gap is the perpendicular offset of interior links from the router centre line.
	Gap = 20
	// Length spans the space between two neighbouring routers.
	Length = geometry.Pitch - geometry.RouterSide // 225
	// EdgeGap is the perpendicular offset of boundary paths.
	EdgeGap = 30
	// EdgeLength is the length of boundary paths.
	EdgeLength = 250
	// ArrowMargin keeps room for the arrowhead between a source path and its router.
	ArrowMargin = 15
)

// Role tells the output path of a direction from its boundary source path.
type Role uint8

const (
	Out Role = iota
	Source
)

func (r Role) String() string {
	switch r {
	case Out:
		return "out"
	case Source:
		return "source"
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// Connection is one routed path.
type Connection struct {
	ID        string
	Core      int
	Direction topology.Direction // side of the router the path leaves from
	Role      Role
	Edge      bool // true for paths on a boundary side

	From, To geometry.Point
	// Anchor is the end of the path farthest from the router. Labels are
	// placed relative to it.
	Anchor geometry.Point
}

// Travel returns the direction in which traffic moves along the path.
// Source paths run towards their router.
func (c *Connection) Travel() topology.Direction {
	if c.Role == Source {
		return c.Direction.Opposite()
	}
	return c.Direction
}

// Path returns the SVG path data of the connection.
func (c *Connection) Path() string {
	return fmt.Sprintf("M%d %d L%d %d", c.From.X, c.From.Y, c.To.X, c.To.Y)
}

// Span returns the bounding box of the path.
func (c *Connection) Span() geometry.Rect {
	x0, x1 := min(c.From.X, c.To.X), max(c.From.X, c.To.X)
	y0, y1 := min(c.From.Y, c.To.Y), max(c.From.Y, c.To.Y)
	return geometry.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// ID returns the element id of the path for core towards d with role r.
func ID(core int, d topology.Direction, r Role) string {
	return fmt.Sprintf("link-%d-%s-%s", core, strings.ToLower(d.String()), r)
}

type key struct {
	core int
	dir  topology.Direction
	role Role
}

// Index holds every connection of a document.
type Index struct {
	records []Connection
	lookup  map[key]int
}

// Build routes the connections of every placed group. Groups must come from
// the same topology; a group without a matching core is a
// [errors.TopologyMismatchError].
func Build(groups []geometry.ProcessingGroup, t *topology.Topology) (*Index, error) {
	x := &Index{lookup: make(map[key]int, len(groups)*4)}
	for _, g := range groups {
		core, ok := t.Core(g.ID)
		if !ok {
			return nil, &errors.TopologyMismatchError{CoreID: g.ID, Subject: "core"}
		}
		for _, d := range topology.Directions {
			if _, wired := core.Channel(d); !wired {
				continue
			}
			if !t.OnBoundary(g.ID, d) {
				if err := x.add(interior(g, d)); err != nil {
					return nil, err
				}
				continue
			}
			if err := x.add(edgeOut(g, d)); err != nil {
				return nil, err
			}
			if err := x.add(edgeSource(g, d)); err != nil {
				return nil, err
			}
		}
	}
	return x, nil
}

func (x *Index) add(c Connection) error {
	k := key{c.Core, c.Direction, c.Role}
	if _, dup := x.lookup[k]; dup {
		return errors.New(errors.ErrCodeInternal, "connection %s registered twice", c.ID)
	}
	x.lookup[k] = len(x.records)
	x.records = append(x.records, c)
	return nil
}

// Lookup returns the connection registered for (core, d, role).
func (x *Index) Lookup(core int, d topology.Direction, role Role) (*Connection, error) {
	i, ok := x.lookup[key{core, d, role}]
	if !ok {
		return nil, &errors.ConnectionLookupError{CoreID: core, Direction: d.String(), Role: role.String()}
	}
	return &x.records[i], nil
}

// Records returns the connections in build order.
func (x *Index) Records() []Connection { return x.records }

// Len returns the number of connections.
func (x *Index) Len() int { return len(x.records) }

// interior links run from the router edge to the neighbouring router's edge.
func interior(g geometry.ProcessingGroup, d topology.Direction) Connection {
	from := g.RouterEdge(d).Step(geometry.Left(d), Gap)
	to := from.Step(d, Length)
	return Connection{
		ID: ID(g.ID, d, Out), Core: g.ID, Direction: d, Role: Out,
		From: from, To: to, Anchor: to,
	}
}

// edgeOut leaves the grid on the left of d.
func edgeOut(g geometry.ProcessingGroup, d topology.Direction) Connection {
	from := g.RouterEdge(d).Step(geometry.Left(d), EdgeGap)
	to := from.Step(d, EdgeLength)
	return Connection{
		ID: ID(g.ID, d, Out), Core: g.ID, Direction: d, Role: Out, Edge: true,
		From: from, To: to, Anchor: to,
	}
}

// edgeSource enters the grid on the right of d and stops ArrowMargin short
// of the router.
func edgeSource(g geometry.ProcessingGroup, d topology.Direction) Connection {
	to := g.RouterEdge(d).Step(geometry.Left(d.Opposite()), EdgeGap).Step(d, ArrowMargin)
	from := to.Step(d, EdgeLength)
	return Connection{
		ID: ID(g.ID, d, Source), Core: g.ID, Direction: d, Role: Source, Edge: true,
		From: from, To: to, Anchor: from,
	}
}
