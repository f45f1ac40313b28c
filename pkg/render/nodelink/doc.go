// Package nodelink exports a mesh topology as a node-link diagram.
//
// Cores become boxes, channels become arrows, and border entries become
// dashed ellipses outside the grid. The result is meant for external
// Graphviz tooling or a quick look at the wiring, not as a replacement for
// the mesh renderer.
//
//	dot := nodelink.ToDOT(t, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [RenderSVG] uses [github.com/goccy/go-graphviz] and runs in process.
package nodelink
