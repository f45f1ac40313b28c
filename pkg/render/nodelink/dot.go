package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/meshview/pkg/topology"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the allocated task and core attributes in node
	// labels. When false, only the core id is shown.
	Detailed bool

	// Loads, when set, labels every loaded channel with its load.
	Loads topology.RoutingMap
}

// NodeID returns the DOT node name of a core.
func NodeID(core int) string { return fmt.Sprintf("core-%d", core) }

// ToDOT converts a topology to Graphviz DOT format. Cores of the same row
// share a rank so the diagram keeps the grid's shape. Every wired channel
// becomes an edge; border entries become extra nodes outside the grid.
//
// The output is deterministic for a given topology and options.
func ToDOT(t *topology.Topology, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.6;\n")
	buf.WriteString("\n")

	for row := range t.Rows {
		buf.WriteString("  { rank=same;")
		for col := range t.Columns {
			fmt.Fprintf(&buf, " %q;", NodeID(row*t.Columns+col))
		}
		buf.WriteString(" }\n")
	}
	for _, c := range t.Cores {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", NodeID(c.ID), fmtLabel(t, c, opts.Detailed))
	}

	for _, id := range t.BorderCores() {
		for _, d := range topology.Directions {
			e, ok := t.Borders[id][d]
			if !ok {
				continue
			}
			name := fmt.Sprintf("border-%d-%s", id, strings.ToLower(d.String()))
			fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, style=\"filled,dashed\", fillcolor=lightgrey];\n",
				name, fmt.Sprintf("%s T%d", e.Kind, e.Task))
		}
	}

	buf.WriteString("\n")
	for _, c := range t.Cores {
		for _, d := range topology.Directions {
			ch, ok := c.Channel(d)
			if !ok {
				continue
			}
			from, to := NodeID(c.ID), ""
			if n, ok := t.Neighbour(c.ID, d); ok {
				to = NodeID(n)
			} else {
				to = fmt.Sprintf("border-%d-%s", c.ID, strings.ToLower(d.String()))
				if _, wired := t.Borders[c.ID][d]; !wired {
					continue
				}
				if t.Borders[c.ID][d].Kind == topology.Source {
					from, to = to, from
				}
			}
			fmt.Fprintf(&buf, "  %q -> %q%s;\n", from, to, fmtEdge(opts.Loads, c.ID, d, ch))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(t *topology.Topology, c *topology.Core, detailed bool) string {
	label := NodeID(c.ID)
	if !detailed {
		return label
	}

	parts := []string{fmt.Sprintf("(%d,%d)", c.Column, c.Row)}
	if c.Task != nil {
		parts = append(parts, fmt.Sprintf("T%d", *c.Task))
		if task, ok := t.Task(*c.Task); ok {
			parts = append(parts, fmt.Sprintf("C: %d", task.ComputationCost))
		}
	}
	for _, k := range slices.Sorted(maps.Keys(c.Attributes)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, c.Attributes[k]))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtEdge(loads topology.RoutingMap, core int, d topology.Direction, ch *topology.Channel) string {
	if loads == nil {
		return ""
	}
	rl, ok := loads[core]
	if !ok {
		return ""
	}
	load, ok := rl.Output[d]
	if !ok {
		load, ok = rl.Source[d]
	}
	if !ok {
		return ""
	}
	return fmt.Sprintf(" [label=%q]", fmt.Sprintf("%d/%d", load, ch.Bandwidth))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's fixed-unit svg tag with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
