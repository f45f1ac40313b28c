// Package render groups the renderers of meshview.
//
// # Mesh Diagrams
//
// The [mesh] subpackage turns a topology into an SVG document of cores,
// routers, channels and border links, and re-renders only the stylesheet,
// the information overlay and the visible area when the display
// configuration changes.
//
//	doc, err := mesh.Render(t, cfg)
//	svg := doc.SVG()
//	up, err := doc.Update(mesh.UpdateRequest{Config: next})
//
// Its building blocks live in their own packages:
//   - [mesh/geometry]: grid placement and core shapes
//   - [mesh/connection]: connector paths and their lookup index
//   - [mesh/border]: sink/source glyphs on the grid boundary
//   - [mesh/bounds]: the visible area and its accumulator
//   - [mesh/encoding]: attribute values to text and colour
//   - [mesh/styles]: SVG and CSS output
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage exports the wiring as a Graphviz graph.
//
//	dot := nodelink.ToDOT(t, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [mesh]: github.com/matzehuels/meshview/pkg/render/mesh
// [mesh/geometry]: github.com/matzehuels/meshview/pkg/render/mesh/geometry
// [mesh/connection]: github.com/matzehuels/meshview/pkg/render/mesh/connection
// [mesh/border]: github.com/matzehuels/meshview/pkg/render/mesh/border
// [mesh/bounds]: github.com/matzehuels/meshview/pkg/render/mesh/bounds
// [mesh/encoding]: github.com/matzehuels/meshview/pkg/render/mesh/encoding
// [mesh/styles]: github.com/matzehuels/meshview/pkg/render/mesh/styles
// [nodelink]: github.com/matzehuels/meshview/pkg/render/nodelink
package render
