package styles

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/meshview/pkg/config"
	"github.com/matzehuels/meshview/pkg/fonts"
	"github.com/matzehuels/meshview/pkg/render/mesh/border"
	"github.com/matzehuels/meshview/pkg/render/mesh/connection"
	"github.com/matzehuels/meshview/pkg/render/mesh/geometry"
)

// ArrowID is the id of the arrowhead marker.
const ArrowID = "arrow"

const (
	lineColour   = "#6b7280"
	strokeColour = "#2b3a55"
)

// Default draws flat shapes with thin outlines.
type Default struct{}

func (Default) RenderDefs(buf *bytes.Buffer, groups []geometry.ProcessingGroup) {
	fmt.Fprintf(buf, `<marker id="%s" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">`, ArrowID)
	fmt.Fprintf(buf, `<path d="M0 0 L10 5 L0 10 z" fill="%s"/></marker>`, lineColour)
	buf.WriteByte('\n')
	for _, g := range groups {
		fmt.Fprintf(buf, `<clipPath id="%s"><path d="%s"/></clipPath>`, g.ClipID(), g.CorePath())
		buf.WriteByte('\n')
	}
}

func (Default) RenderRules(buf *bytes.Buffer, base config.BaseConfiguration) {
	fmt.Fprintf(buf, "text{font-family:%s}\n", fonts.FontFamily)
	fmt.Fprintf(buf, ".label{font-size:%spx;fill:#000}\n", Num(base.AttributeFontSize))
	fmt.Fprintf(buf, ".core{fill:#dfe7f2;stroke:%s;stroke-width:4}\n", strokeColour)
	fmt.Fprintf(buf, ".router{fill:#f5f5f5;stroke:%s;stroke-width:2}\n", strokeColour)
	fmt.Fprintf(buf, ".link{fill:none;stroke:%s;stroke-width:3}\n", lineColour)
	buf.WriteString(".link.edge{stroke-dasharray:8 4}\n")
	fmt.Fprintf(buf, ".glyph rect{stroke:%s;stroke-width:1.5}\n", strokeColour)
	buf.WriteString(".glyph.sink rect{fill:#fde2d4}\n")
	buf.WriteString(".glyph.source rect{fill:#d9f2d0}\n")
	buf.WriteString(".glyph.empty rect{fill:#fff;stroke-dasharray:4 3}\n")
	fmt.Fprintf(buf, ".glyph text{font-size:%spx;fill:#000}\n", Num(base.AttributeFontSize))
	fmt.Fprintf(buf, ".task rect{fill:#fff8dc;stroke:%s;stroke-width:1.5}\n", strokeColour)
	fmt.Fprintf(buf, ".task text{font-size:%spx;fill:#000}\n", Num(base.TaskFontSize))
}

// RenderGroup draws the core clipped to its outline so the stroke stays
// inside the notch, then the router on top.
func (Default) RenderGroup(buf *bytes.Buffer, g geometry.ProcessingGroup) {
	r := g.RouterRect()
	fmt.Fprintf(buf, `<g id="group-%d">`, g.ID)
	fmt.Fprintf(buf, `<path id="%s" class="core" d="%s" clip-path="url(#%s)"/>`, g.CoreID(), g.CorePath(), g.ClipID())
	fmt.Fprintf(buf, `<rect id="%s" class="router" x="%d" y="%d" width="%d" height="%d"/>`, g.RouterID(), r.X, r.Y, r.W, r.H)
	buf.WriteString("</g>\n")
}

func (Default) RenderConnection(buf *bytes.Buffer, c *connection.Connection) {
	class := "link"
	if c.Edge {
		class = "link edge"
	}
	fmt.Fprintf(buf, `<path id="%s" class="%s" d="%s" marker-end="url(#%s)"/>`, c.ID, class, c.Path(), ArrowID)
	buf.WriteByte('\n')
}

func (Default) RenderGlyph(buf *bytes.Buffer, g border.Glyph) {
	r := g.Rect
	fmt.Fprintf(buf, `<g id="%s" class="glyph %s">`, g.ID, g.Variant.Class())
	fmt.Fprintf(buf, `<rect x="%s" y="%s" width="%s" height="%s" rx="%s"/>`,
		Num(r.X), Num(r.Y), Num(r.W), Num(r.H), Num(border.Radius))
	if g.Text != "" {
		fmt.Fprintf(buf, `<text x="%s" y="%s" text-anchor="middle" dominant-baseline="central">%s</text>`,
			Num(r.X+r.W/2), Num(r.Y+r.H/2), EscapeXML(g.Text))
	}
	buf.WriteString("</g>\n")
}

func (Default) RenderBadge(buf *bytes.Buffer, b Badge) {
	r := b.Rect
	fmt.Fprintf(buf, `<g id="%s" class="task">`, b.ID)
	fmt.Fprintf(buf, `<rect x="%s" y="%s" width="%s" height="%s" rx="4"/>`, Num(r.X), Num(r.Y), Num(r.W), Num(r.H))
	// Centre the block of lines vertically inside the box.
	first := r.Y + (r.H-float64(len(b.Lines))*b.LineHeight)/2 + b.FontSize
	buf.WriteString(`<text text-anchor="middle">`)
	for i, l := range b.Lines {
		fmt.Fprintf(buf, `<tspan x="%s" y="%s">%s</tspan>`, Num(r.X+r.W/2), Num(first+float64(i)*b.LineHeight), EscapeXML(l))
	}
	buf.WriteString("</text></g>\n")
}

func (Default) RenderText(buf *bytes.Buffer, t Text) {
	if len(t.Lines) == 0 {
		return
	}
	class := t.Class
	if class == "" {
		class = "label"
	}
	fmt.Fprintf(buf, `<text class="%s" text-anchor="%s">`, class, t.Anchor)
	for i, l := range t.Lines {
		fmt.Fprintf(buf, `<tspan x="%s" y="%s"`, Num(t.X), Num(t.Y+float64(i)*t.LineHeight))
		if l.Colour != "" {
			fmt.Fprintf(buf, ` fill="%s"`, EscapeXML(l.Colour))
		}
		fmt.Fprintf(buf, ">%s</tspan>", EscapeXML(l.Text))
	}
	buf.WriteString("</text>\n")
}
