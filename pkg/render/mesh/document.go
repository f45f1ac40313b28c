package mesh

import (
	"bytes"

	"github.com/matzehuels/meshview/pkg/config"
	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/render/mesh/border"
	"github.com/matzehuels/meshview/pkg/render/mesh/bounds"
	"github.com/matzehuels/meshview/pkg/render/mesh/connection"
	"github.com/matzehuels/meshview/pkg/render/mesh/encoding"
	"github.com/matzehuels/meshview/pkg/render/mesh/geometry"
	"github.com/matzehuels/meshview/pkg/render/mesh/styles"
	"github.com/matzehuels/meshview/pkg/topology"
	"github.com/matzehuels/meshview/pkg/topology/routing"
)

// State is the lifecycle state of a document.
type State uint8

const (
	// Committed documents expose the result of the last successful render or update.
	Committed State = iota
	// Pending documents are in the middle of an update.
	Pending
)

func (s State) String() string {
	if s == Pending {
		return "Pending"
	}
	return "Committed"
}

type Option func(*Document)

// WithBase sets the font sizes. Sizes are clamped to their documented ranges.
func WithBase(b config.BaseConfiguration) Option { return func(d *Document) { d.base = b.Clamp() } }

// WithStyle replaces the default style.
func WithStyle(s styles.Style) Option { return func(d *Document) { d.style = s } }

// Document is a rendered mesh. Geometry, connections and glyphs are built
// once; the stylesheet, the information overlay and the visible area follow
// the committed configuration.
//
// A Document is not safe for concurrent use.
type Document struct {
	topo   *topology.Topology
	base   config.BaseConfiguration
	style  styles.Style
	grid   *geometry.Grid
	groups []geometry.ProcessingGroup
	index  *connection.Index
	glyphs []border.Glyph
	loads  map[routing.Algorithm]topology.RoutingMap

	defs, processing, connections, borders string

	state    State
	config   *config.Configuration
	computed map[int]bool
	bounds   bounds.Bounds
	sheet    string
	overlay  string
}

// Render places t and encodes it with cfg. A nil cfg renders without any
// attribute labels. Nothing is returned on error.
func Render(t *topology.Topology, cfg *config.Configuration, opts ...Option) (*Document, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	d := &Document{
		topo:     t,
		base:     config.DefaultBase(),
		style:    styles.Default{},
		loads:    map[routing.Algorithm]topology.RoutingMap{},
		computed: map[int]bool{},
	}
	for _, opt := range opts {
		opt(d)
	}

	d.grid = geometry.NewGrid(t.Rows, t.Columns)
	d.groups = d.grid.PlaceAll(t)

	index, err := connection.Build(d.groups, t)
	if err != nil {
		return nil, err
	}
	d.index = index

	glyphs, err := border.Build(d.grid, d.groups, t, d.base.AttributeFontSize)
	if err != nil {
		return nil, err
	}
	d.glyphs = glyphs

	d.renderStatic()

	if cfg == nil {
		cfg = config.New()
	}
	res, acc, err := d.pass(cfg)
	if err != nil {
		return nil, err
	}
	d.bounds = acc.Apply(d.baseBounds())
	d.commit(cfg, res)
	return d, nil
}

// renderStatic writes the layers that no configuration change can affect.
func (d *Document) renderStatic() {
	var defs, groups, conns, glyphs bytes.Buffer
	d.style.RenderDefs(&defs, d.groups)
	for _, g := range d.groups {
		d.style.RenderGroup(&groups, g)
	}
	for i := range d.index.Records() {
		d.style.RenderConnection(&conns, &d.index.Records()[i])
	}
	for _, gl := range d.glyphs {
		d.style.RenderGlyph(&glyphs, gl)
	}
	d.defs, d.processing, d.connections, d.borders = defs.String(), groups.String(), conns.String(), glyphs.String()
}

func (d *Document) baseBounds() bounds.Bounds { return bounds.FromRect(d.grid.Bounds()) }

// pass encodes the document with cfg and the current task variants without
// changing any committed state.
func (d *Document) pass(cfg *config.Configuration) (*encoding.Result, *bounds.Accumulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	loads, err := d.routed(cfg)
	if err != nil {
		return nil, nil, err
	}

	acc := &bounds.Accumulator{}
	for i := range d.index.Records() {
		acc.ObserveRect(d.index.Records()[i].Span())
	}

	enc := &encoding.Encoder{Config: cfg, Base: d.base, Style: d.style}
	res, err := enc.Encode(&encoding.Input{
		Topology: d.topo,
		Groups:   d.groups,
		Index:    d.index,
		Glyphs:   d.glyphs,
		Loads:    loads,
		Computed: d.computed,
	}, acc)
	if err != nil {
		return nil, nil, err
	}
	return res, acc, nil
}

// routed returns the loads for the configured algorithm. Results are kept
// per algorithm since they only depend on the topology.
func (d *Document) routed(cfg *config.Configuration) (topology.RoutingMap, error) {
	r, err := cfg.Routing()
	if err != nil || r == nil {
		return nil, err
	}
	name := r.Algorithm
	if name == "" {
		name = string(routing.Observed)
	}
	alg, err := routing.Parse(name)
	if err != nil {
		return nil, err
	}
	if m, ok := d.loads[alg]; ok {
		return m, nil
	}
	m, err := routing.Compute(d.topo, alg)
	if err != nil {
		return nil, err
	}
	d.loads[alg] = m
	return m, nil
}

func (d *Document) commit(cfg *config.Configuration, res *encoding.Result) {
	d.config = cfg
	d.sheet = res.Style
	d.overlay = res.Overlay
	d.state = Committed
}

// State returns the lifecycle state.
func (d *Document) State() State { return d.state }

// Bounds returns the committed visible area.
func (d *Document) Bounds() bounds.Bounds { return d.bounds }

// Config returns the committed configuration.
func (d *Document) Config() *config.Configuration { return d.config }

// Base returns the font sizes in use.
func (d *Document) Base() config.BaseConfiguration { return d.base }

// Topology returns the rendered topology.
func (d *Document) Topology() *topology.Topology { return d.topo }

// Stylesheet returns the committed stylesheet fragment.
func (d *Document) Stylesheet() string { return d.sheet }

// Overlay returns the committed information overlay fragment.
func (d *Document) Overlay() string { return d.overlay }

// Computed reports whether the badge of task shows its computation cost.
func (d *Document) Computed(task int) bool { return d.computed[task] }

// Connections returns the connection index.
func (d *Document) Connections() *connection.Index { return d.index }

// Glyphs returns the border glyphs.
func (d *Document) Glyphs() []border.Glyph { return d.glyphs }

func errPending() error {
	return errors.New(errors.ErrCodeInternal, "document has an update in progress")
}
