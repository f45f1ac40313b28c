package mesh

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/meshview/pkg/render/mesh/styles"
)

// Layer ids of the document. Clients replace the content of the style
// element and of LayerInformation when they apply an [Update].
const (
	LayerProcessingGroups = "processingGroups"
	LayerConnections      = "connections"
	LayerBorders          = "borders"
	LayerInformation      = "information"
	EventCaptureID        = "eventCapture"
	ExportGuideID         = "exportGuide"
)

// SVG serialises the committed document.
func (d *Document) SVG() []byte {
	b := d.bounds
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s">`+"\n", b)

	buf.WriteString("<defs>\n")
	buf.WriteString(d.defs)
	buf.WriteString("</defs>\n")

	buf.WriteString("<style>\n")
	buf.WriteString(d.sheet)
	buf.WriteString("</style>\n")

	layer(&buf, LayerProcessingGroups, d.processing)
	layer(&buf, LayerConnections, d.connections)
	layer(&buf, LayerBorders, d.borders)
	layer(&buf, LayerInformation, d.overlay)

	x, y, w, h := styles.Num(b.X), styles.Num(b.Y), styles.Num(b.W), styles.Num(b.H)
	fmt.Fprintf(&buf, `<rect id="%s" x="%s" y="%s" width="%s" height="%s" fill="none" pointer-events="all"/>`+"\n",
		EventCaptureID, x, y, w, h)
	fmt.Fprintf(&buf, `<rect id="%s" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="none"/>`+"\n",
		ExportGuideID, x, y, w, h)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func layer(buf *bytes.Buffer, id, content string) {
	fmt.Fprintf(buf, `<g id="%s">`+"\n", id)
	buf.WriteString(content)
	buf.WriteString("</g>\n")
}
