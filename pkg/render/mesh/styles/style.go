// Package styles writes the SVG markup of mesh elements.
//
// Geometry packages compute where things go; a [Style] decides how they
// look. [Default] is the only style shipped today.
package styles

import (
	"bytes"

	"github.com/matzehuels/meshview/pkg/config"
	"github.com/matzehuels/meshview/pkg/render/mesh/border"
	"github.com/matzehuels/meshview/pkg/render/mesh/bounds"
	"github.com/matzehuels/meshview/pkg/render/mesh/connection"
	"github.com/matzehuels/meshview/pkg/render/mesh/geometry"
)

// Style defines the visual appearance of a mesh document.
type Style interface {
	// RenderDefs writes <defs> content: the arrow marker and core clip paths.
	RenderDefs(buf *bytes.Buffer, groups []geometry.ProcessingGroup)
	// RenderRules writes the stylesheet rules that do not depend on data.
	RenderRules(buf *bytes.Buffer, base config.BaseConfiguration)
	// RenderGroup writes the core and router shapes of one block.
	RenderGroup(buf *bytes.Buffer, g geometry.ProcessingGroup)
	// RenderConnection writes one routed path.
	RenderConnection(buf *bytes.Buffer, c *connection.Connection)
	// RenderGlyph writes one border glyph.
	RenderGlyph(buf *bytes.Buffer, g border.Glyph)
	// RenderBadge writes one task badge.
	RenderBadge(buf *bytes.Buffer, b Badge)
	// RenderText writes a block of label lines.
	RenderText(buf *bytes.Buffer, t Text)
}

// Line is one label line. An empty Colour renders in the default text colour.
type Line struct {
	Text   string
	Colour string
}

// Text is a block of lines starting at a baseline.
type Text struct {
	Class      string
	X, Y       float64 // first baseline
	Anchor     string  // start, middle or end
	LineHeight float64
	Lines      []Line
}

// Badge is the label box of a task allocated to a core.
type Badge struct {
	ID         string
	Rect       bounds.Bounds
	Lines      []string
	FontSize   float64
	LineHeight float64
}
