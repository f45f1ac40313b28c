// Package encoding turns attribute values into label text, fill colours and
// link colours according to a [config.Configuration].
//
// One [Encoder.Encode] call produces the two data-driven fragments of a
// document: the stylesheet and the information overlay. Colour decisions go
// into the stylesheet as rules keyed by element id (#core-3{fill:red}), so a
// later configuration change replaces one fragment instead of touching every
// shape. Everything else that depends on data, including coordinates,
// link loads and task badges, is written to the overlay.
package encoding

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/matzehuels/meshview/pkg/config"
	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/fonts"
	"github.com/matzehuels/meshview/pkg/render/mesh/border"
	"github.com/matzehuels/meshview/pkg/render/mesh/bounds"
	"github.com/matzehuels/meshview/pkg/render/mesh/connection"
	"github.com/matzehuels/meshview/pkg/render/mesh/geometry"
	"github.com/matzehuels/meshview/pkg/render/mesh/styles"
	"github.com/matzehuels/meshview/pkg/topology"
	"github.com/matzehuels/meshview/pkg/topology/routing"
)

// Label placement in pixels.
const (
	Padding         = 8.0
	LabelInset      = 30.0 // distance from a path's far end back towards its router
	LabelOffset     = 8.0  // perpendicular distance from an interior path
	EdgeLabelOffset = 20.0 // perpendicular distance from a boundary path
	CoordinatesX    = 50.0 // horizontal anchor of the coordinates label within the block
)

// Input is the placed document an encoder pass reads. Encode never modifies it.
type Input struct {
	Topology *topology.Topology
	Groups   []geometry.ProcessingGroup
	Index    *connection.Index
	Glyphs   []border.Glyph
	// Loads holds the routed loads. It is only read when the configuration
	// has a load slot.
	Loads topology.RoutingMap
	// Computed marks tasks whose badge shows the computation cost.
	Computed map[int]bool
}

// Result holds the fragments produced by one pass.
type Result struct {
	Style   string
	Overlay string
}

// Encoder applies a configuration to a placed document.
type Encoder struct {
	Config *config.Configuration
	Base   config.BaseConfiguration
	Style  styles.Style // nil means styles.Default
}

// Encode runs one pass. Every placed label, badge and visible glyph is
// reported to acc. On error the result is nil and acc must be discarded.
func (e *Encoder) Encode(in *Input, acc *bounds.Accumulator) (*Result, error) {
	cfg := e.Config
	if cfg == nil {
		cfg = config.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	coords, _ := cfg.Coordinates()
	load, _ := cfg.Routing()
	visible, _ := cfg.BordersVisible()

	if load != nil {
		if err := checkLoads(in.Topology, in.Loads); err != nil {
			return nil, err
		}
	}

	p := &pass{
		in:     in,
		cfg:    cfg,
		coords: coords,
		load:   load,
		base:   e.Base.Clamp(),
		st:     e.Style,
		acc:    acc,
	}
	if p.st == nil {
		p.st = styles.Default{}
	}
	p.lh = styles.LineHeight(p.base.AttributeFontSize)
	p.st.RenderRules(&p.style, p.base)

	for _, g := range in.Groups {
		if err := p.group(g); err != nil {
			return nil, err
		}
	}

	if visible {
		for _, gl := range in.Glyphs {
			acc.Observe(gl.Rect)
		}
	} else {
		p.style.WriteString("#borders{display:none}\n")
	}
	acc.Glyphs(visible && len(in.Glyphs) > 0)

	return &Result{Style: p.style.String(), Overlay: p.overlay.String()}, nil
}

type pass struct {
	in     *Input
	cfg    *config.Configuration
	coords *config.Coordinates
	load   *config.Routing
	base   config.BaseConfiguration
	lh     float64
	st     styles.Style
	acc    *bounds.Accumulator

	style   bytes.Buffer
	overlay bytes.Buffer
}

func (p *pass) rule(id, property, colour string) {
	fmt.Fprintf(&p.style, "#%s{%s:%s}\n", id, property, colour)
}

func (p *pass) group(g geometry.ProcessingGroup) error {
	core, ok := p.in.Topology.Core(g.ID)
	if !ok {
		return &errors.TopologyMismatchError{CoreID: g.ID, Subject: "core"}
	}
	size := p.base.AttributeFontSize

	d := Decide(p.cfg.Core, core.Attributes)
	if d.Fill != "" {
		p.rule(g.CoreID(), "fill", d.Fill)
	}
	p.text(styles.Text{
		X:      float64(g.Origin.X) + Padding,
		Y:      float64(g.Origin.Y) + Padding + size,
		Anchor: "start",
		Lines:  d.Lines,
	})

	rd := Decide(p.cfg.Router, core.Router)
	if rd.Fill != "" {
		p.rule(g.RouterID(), "fill", rd.Fill)
	}
	r := g.RouterRect()
	p.text(styles.Text{
		X:      float64(r.X) + Padding,
		Y:      float64(r.Y) + Padding + size,
		Anchor: "start",
		Lines:  rd.Lines,
	})

	if p.coords != nil {
		row := g.Row
		if p.coords.Orientation == config.Bottom {
			row = p.in.Topology.Rows - g.Row
		}
		p.text(styles.Text{
			X:      float64(g.Origin.X) + CoordinatesX,
			Y:      float64(g.Origin.Y) + geometry.CoreSide + p.lh,
			Anchor: "middle",
			Lines:  []styles.Line{{Text: fmt.Sprintf("(%d,%d)", g.Column, row)}},
		})
	}

	if core.Task != nil {
		task, ok := p.in.Topology.Task(*core.Task)
		if !ok {
			return &errors.TopologyMismatchError{CoreID: g.ID, Subject: "task", Detail: fmt.Sprintf("task %d", *core.Task)}
		}
		b := TaskBadge(g, task, p.in.Computed[task.ID], p.base.TaskFontSize)
		p.st.RenderBadge(&p.overlay, b)
		p.acc.Observe(b.Rect)
	}

	return p.channels(g, core)
}

func (p *pass) channels(g geometry.ProcessingGroup, core *topology.Core) error {
	var loads *topology.RoutingLoads
	if p.load != nil {
		loads = p.in.Loads[g.ID]
	}

	for _, d := range topology.Directions {
		ch, ok := core.Channel(d)
		if !ok {
			continue
		}
		c, err := p.in.Index.Lookup(g.ID, d, connection.Out)
		if err != nil {
			return err
		}
		cd := Decide(p.cfg.Channel, ch.Attributes)
		if cd.Fill != "" {
			p.rule(c.ID, "stroke", cd.Fill)
		}
		var lines []styles.Line
		if l, ok := outputLoad(loads, d); ok {
			text, bucket := LoadLine(p.load, l, ch.Bandwidth)
			lines = append(lines, styles.Line{Text: text})
			p.rule(c.ID, "stroke", p.load.Thresholds.Colours[bucket])
		}
		lines = append(lines, cd.Lines...)
		p.linkLabel(c, lines)
	}

	if loads == nil {
		return nil
	}
	for _, d := range routing.Loaded(loads.Source) {
		ch, _ := core.Channel(d)
		c, err := p.in.Index.Lookup(g.ID, d, connection.Source)
		if err != nil {
			return err
		}
		text, bucket := LoadLine(p.load, loads.Source[d], ch.Bandwidth)
		p.rule(c.ID, "stroke", p.load.Thresholds.Colours[bucket])
		p.linkLabel(c, []styles.Line{{Text: text}})
	}
	return nil
}

func outputLoad(loads *topology.RoutingLoads, d topology.Direction) (uint64, bool) {
	if loads == nil {
		return 0, false
	}
	l, ok := loads.Output[d]
	return l, ok
}

// linkLabel places lines next to the far end of c, on the left of the
// direction traffic travels. Source paths travel towards their router, so
// their labels sit on the other side of the boundary pair.
func (p *pass) linkLabel(c *connection.Connection, lines []styles.Line) {
	if len(lines) == 0 {
		return
	}
	size := p.base.AttributeFontSize
	offset := LabelOffset
	if c.Edge {
		offset = EdgeLabelOffset
	}
	at := c.Anchor.Step(c.Direction.Opposite(), LabelInset)
	x, y := float64(at.X), float64(at.Y)
	n := float64(len(lines))

	t := styles.Text{Lines: lines}
	switch side := geometry.Left(c.Travel()); side {
	case topology.North:
		t.Anchor, t.X, t.Y = "middle", x, y-offset-(n-1)*p.lh
	case topology.South:
		t.Anchor, t.X, t.Y = "middle", x, y+offset+size
	case topology.East:
		t.Anchor, t.X, t.Y = "start", x+offset, y
	case topology.West:
		t.Anchor, t.X, t.Y = "end", x-offset, y
	default:
		panic(topology.InvalidDirection(side))
	}
	p.text(t)
}

func (p *pass) text(t styles.Text) {
	if len(t.Lines) == 0 {
		return
	}
	t.LineHeight = p.lh
	p.st.RenderText(&p.overlay, t)
	p.acc.Observe(textRect(t, p.base.AttributeFontSize))
}

func textRect(t styles.Text, size float64) bounds.Bounds {
	var w float64
	for _, l := range t.Lines {
		w = max(w, fonts.MeasureString(l.Text, size))
	}
	x := t.X
	switch t.Anchor {
	case "middle":
		x -= w / 2
	case "end":
		x -= w
	}
	h := float64(len(t.Lines)-1)*t.LineHeight + size
	return bounds.Bounds{X: x, Y: t.Y - size, W: w, H: h}
}

// TaskBadge returns the badge of task placed on g. The badge is centred on
// the core's bottom-left corner. The plain variant shows "T<id>"; the
// computed variant adds "C: <cost>" and is as wide as the wider line.
func TaskBadge(g geometry.ProcessingGroup, task *topology.Task, computed bool, fontSize float64) styles.Badge {
	lines := []string{fmt.Sprintf("T%d", task.ID)}
	if computed {
		lines = append(lines, fmt.Sprintf("C: %d", task.ComputationCost))
	}
	var w float64
	for _, l := range lines {
		w = max(w, fonts.MeasureString(l, fontSize))
	}
	lh := styles.LineHeight(fontSize)
	w = styles.Round(w + 2*Padding)
	h := float64(len(lines))*lh + Padding

	cx, cy := float64(g.Origin.X), float64(g.Origin.Y+geometry.CoreSide)
	return styles.Badge{
		ID:         fmt.Sprintf("task-%d", task.ID),
		Rect:       bounds.Bounds{X: cx - w/2, Y: cy - h/2, W: w, H: h},
		Lines:      lines,
		FontSize:   fontSize,
		LineHeight: lh,
	}
}

// checkLoads verifies that every routed load sits on a channel the geometry
// built: output loads need a wired channel, source loads a wired boundary side.
func checkLoads(t *topology.Topology, loads topology.RoutingMap) error {
	ids := make([]int, 0, len(loads))
	for id := range loads {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		core, ok := t.Core(id)
		if !ok {
			return &errors.TopologyMismatchError{CoreID: id, Subject: "routing entry"}
		}
		rl := loads[id]
		if rl == nil {
			continue
		}
		for _, d := range routing.Loaded(rl.Output) {
			if _, ok := core.Channel(d); !ok {
				return &errors.TopologyMismatchError{CoreID: id, Direction: d.String(), Subject: "output load", Detail: "no channel"}
			}
		}
		for _, d := range routing.Loaded(rl.Source) {
			if _, ok := core.Channel(d); !ok {
				return &errors.TopologyMismatchError{CoreID: id, Direction: d.String(), Subject: "source load", Detail: "no channel"}
			}
			if !t.OnBoundary(id, d) {
				return &errors.TopologyMismatchError{CoreID: id, Direction: d.String(), Subject: "source load", Detail: "side is not on the boundary"}
			}
		}
	}
	return nil
}
