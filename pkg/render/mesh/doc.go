// Package mesh renders a processor mesh as an SVG document and updates the
// document incrementally when its display configuration changes.
//
// # Rendering
//
// [Render] places every core and router on a fixed grid ([geometry]),
// routes the links between routers and towards the boundary
// ([connection]), builds the sink and source badges beyond the boundary
// ([border]) and encodes attribute values as labels and colours
// ([encoding]). The visible area is tracked by [bounds].
//
//	doc, err := mesh.Render(topo, cfg, mesh.WithBase(config.BaseConfiguration{AttributeFontSize: 14}))
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("mesh.svg", doc.SVG(), 0o644)
//
// The document has a fixed structure: the viewBox, a <defs> block with the
// arrow marker and the core clip paths, a <style> block, the
// processingGroups, connections, borders and information layers, and two
// full-size utility rectangles for event capture and export.
//
// # Partial Updates
//
// Geometry never changes after Render. [Document.Update] recomputes only the
// stylesheet, the information overlay and, when it grew, the viewBox:
//
//	up, err := doc.Update(mesh.UpdateRequest{Config: next, Toggles: []int{3}})
//
// Updates are all-or-nothing. The document saves its visible area and task
// badge variants before an update and restores them on any error, so a
// failed update leaves it exactly as it was. The visible area only grows.
//
// # Sessions
//
// [Document.Snapshot] captures the committed state; [Resume] rebuilds an
// equivalent document in another process.
//
// [geometry]: github.com/matzehuels/meshview/pkg/render/mesh/geometry
// [connection]: github.com/matzehuels/meshview/pkg/render/mesh/connection
// [border]: github.com/matzehuels/meshview/pkg/render/mesh/border
// [encoding]: github.com/matzehuels/meshview/pkg/render/mesh/encoding
// [bounds]: github.com/matzehuels/meshview/pkg/render/mesh/bounds
package mesh
