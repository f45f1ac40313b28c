// Package routing computes per-channel loads from the task graph of a
// topology.
//
// Dimension-ordered algorithms move a message along one axis until it
// reaches the destination's row or column, then along the other:
//
//   - [RowFirst] travels along the current row (East/West) first
//   - [ColumnFirst] travels along the current column (North/South) first
//   - [Observed] uses the topology's precomputed routing map, or the loads
//     recorded on each channel when no map is present
//
// Traffic from a source border entry is charged to the boundary core's
// source channel before it enters the grid. Traffic towards a sink border
// entry leaves through the boundary core's output channel.
package routing

import (
	"fmt"
	"sort"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/topology"
)

// Algorithm names a routing strategy.
type Algorithm string

const (
	RowFirst    Algorithm = "RowFirst"
	ColumnFirst Algorithm = "ColumnFirst"
	Observed    Algorithm = "Observed"
)

// Algorithms lists the supported algorithms.
var Algorithms = []Algorithm{RowFirst, ColumnFirst, Observed}

// Parse validates an algorithm name.
func Parse(s string) (Algorithm, error) {
	for _, a := range Algorithms {
		if string(a) == s {
			return a, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown routing algorithm %q", s)
}

// Compute returns the loaded directions of every core under alg.
func Compute(t *topology.Topology, alg Algorithm) (topology.RoutingMap, error) {
	switch alg {
	case Observed:
		return observed(t), nil
	case RowFirst, ColumnFirst:
		return dimensionOrdered(t, alg == RowFirst)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown routing algorithm %q", alg)
	}
}

func observed(t *topology.Topology) topology.RoutingMap {
	if t.Routing != nil {
		return t.Routing
	}
	m := topology.RoutingMap{}
	for _, c := range t.Cores {
		for _, d := range topology.Directions {
			if ch, ok := c.Channel(d); ok && ch.Load > 0 {
				m.Add(c.ID, d, false, ch.Load)
			}
		}
	}
	return m
}

type sinkRef struct {
	core int
	dir  topology.Direction
}

func dimensionOrdered(t *topology.Topology, rowFirst bool) (topology.RoutingMap, error) {
	m := topology.RoutingMap{}
	sinks := map[int]sinkRef{}

	for _, id := range t.BorderCores() {
		for _, d := range topology.Directions {
			e, ok := t.Borders[id][d]
			if !ok || e.Kind != topology.Sink {
				continue
			}
			if _, dup := sinks[e.Task]; !dup {
				sinks[e.Task] = sinkRef{core: id, dir: d}
			}
		}
	}

	for _, c := range t.Cores {
		if c.Task == nil {
			continue
		}
		task, ok := t.Task(*c.Task)
		if !ok {
			return nil, &errors.TopologyMismatchError{CoreID: c.ID, Subject: "task", Detail: fmt.Sprintf("task %d", *c.Task)}
		}
		for _, e := range task.Edges {
			if dst, ok := t.TaskCore(e.To); ok {
				if err := walk(t, m, c.ID, dst, rowFirst, e.CommunicationCost); err != nil {
					return nil, err
				}
				continue
			}
			sink, ok := sinks[e.To]
			if !ok {
				return nil, &errors.TopologyMismatchError{CoreID: c.ID, Subject: "task", Detail: fmt.Sprintf("edge target %d is neither allocated nor a sink", e.To)}
			}
			if err := walk(t, m, c.ID, sink.core, rowFirst, e.CommunicationCost); err != nil {
				return nil, err
			}
			if err := charge(t, m, sink.core, sink.dir, false, e.CommunicationCost); err != nil {
				return nil, err
			}
		}
	}

	for _, id := range t.BorderCores() {
		for _, d := range topology.Directions {
			e, ok := t.Borders[id][d]
			if !ok || e.Kind != topology.Source {
				continue
			}
			task, ok := t.Task(e.Task)
			if !ok {
				continue
			}
			for _, edge := range task.Edges {
				dst, ok := t.TaskCore(edge.To)
				if !ok {
					return nil, &errors.TopologyMismatchError{CoreID: id, Direction: d.String(), Subject: "task", Detail: fmt.Sprintf("source target %d is not allocated", edge.To)}
				}
				if err := charge(t, m, id, d, true, edge.CommunicationCost); err != nil {
					return nil, err
				}
				if err := walk(t, m, id, dst, rowFirst, edge.CommunicationCost); err != nil {
					return nil, err
				}
			}
		}
	}
	return m, nil
}

// walk charges cost to every output channel on the path from src to dst.
func walk(t *topology.Topology, m topology.RoutingMap, src, dst int, rowFirst bool, cost uint64) error {
	cur, _ := t.Core(src)
	target, _ := t.Core(dst)
	for cur.ID != target.ID {
		d := nextHop(cur, target, rowFirst)
		if err := charge(t, m, cur.ID, d, false, cost); err != nil {
			return err
		}
		next, ok := t.Neighbour(cur.ID, d)
		if !ok {
			return &errors.TopologyMismatchError{CoreID: cur.ID, Direction: d.String(), Subject: "neighbour"}
		}
		cur, _ = t.Core(next)
	}
	return nil
}

func nextHop(cur, target *topology.Core, rowFirst bool) topology.Direction {
	horizontal := func() (topology.Direction, bool) {
		switch {
		case target.Column > cur.Column:
			return topology.East, true
		case target.Column < cur.Column:
			return topology.West, true
		}
		return topology.North, false
	}
	vertical := func() (topology.Direction, bool) {
		switch {
		case target.Row > cur.Row:
			return topology.South, true
		case target.Row < cur.Row:
			return topology.North, true
		}
		return topology.North, false
	}
	first, second := horizontal, vertical
	if !rowFirst {
		first, second = vertical, horizontal
	}
	if d, ok := first(); ok {
		return d
	}
	d, _ := second()
	return d
}

func charge(t *topology.Topology, m topology.RoutingMap, core int, d topology.Direction, source bool, cost uint64) error {
	c, _ := t.Core(core)
	if _, ok := c.Channel(d); !ok {
		subject := "channel"
		if source {
			subject = "source channel"
		}
		return &errors.TopologyMismatchError{CoreID: core, Direction: d.String(), Subject: subject}
	}
	m.Add(core, d, source, cost)
	return nil
}

// Loaded returns the directions of a routing entry in rendering order.
func Loaded(loads map[topology.Direction]uint64) []topology.Direction {
	dirs := make([]topology.Direction, 0, len(loads))
	for d := range loads {
		dirs = append(dirs, d)
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i] < dirs[j] })
	return dirs
}
