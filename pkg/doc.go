// Package pkg holds the libraries behind meshview, a renderer for mesh
// network-on-chip topologies.
//
// # Overview
//
// A topology is a grid of cores. Every core sits next to a router, routers
// are joined by channels, and cores carry tasks from a task graph. The
// libraries turn such a topology into an SVG document whose look is driven
// by a display configuration, and keep the document alive so that a new
// configuration only recomputes the stylesheet and the information overlay.
//
//  1. [topology] - the grid, its channels, tasks and boundary ports
//  2. [config] - display configuration (TOML or JSON, key order kept)
//  3. [render] - the mesh document and the node-link export
//  4. [pipeline] - load → render → export with caching
//  5. [cache], [session] - artifact cache and stored documents
//
// # Data Flow
//
//	topology.json + display.toml
//	         ↓
//	    [pipeline] Load
//	         ↓
//	    [render/mesh] Render → Document (SVG)
//	         ↓
//	    [render/mesh] Document.Update (stylesheet + overlay)
//	         ↓
//	    [session] Store (Snapshot / Resume)
//
// # Quick Start
//
//	t, cfg, _ := pipeline.Load("mesh.json", "display.toml")
//	doc, _ := mesh.Render(t, cfg)
//	os.WriteFile("mesh.svg", doc.SVG(), 0o644)
//
//	up, _ := doc.Update(mesh.UpdateRequest{Toggles: []int{3}})
//	fmt.Println(up.Style)
//
// The engine never logs. Errors carry a machine-readable code from
// [errors]; the CLI and the HTTP service log with charmbracelet/log.
package pkg
