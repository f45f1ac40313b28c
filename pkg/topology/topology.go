package topology

import (
	"sort"

	"github.com/matzehuels/meshview/pkg/errors"
)

// Channel is an outgoing link from a core's router towards one direction.
type Channel struct {
	Direction  Direction
	Bandwidth  uint64
	Load       uint64 // observed load, used by the Observed routing algorithm
	Attributes Attributes
}

// Core is one processing element of the grid.
type Core struct {
	ID         int
	Row        int
	Column     int
	Attributes Attributes
	Router     Attributes
	Task       *int // allocated task id, nil when idle
	Channels   map[Direction]*Channel
}

// Channel returns the channel wired towards d, if any.
func (c *Core) Channel(d Direction) (*Channel, bool) {
	ch, ok := c.Channels[d]
	return ch, ok && ch != nil
}

// TaskEdge is a communication from one task to another.
type TaskEdge struct {
	To                int
	CommunicationCost uint64
}

// Task is a unit of work that can be allocated to a core.
type Task struct {
	ID              int
	ComputationCost uint64
	Edges           []TaskEdge
}

// BorderKind tells whether a border link carries traffic out of or into the grid.
type BorderKind uint8

const (
	Sink BorderKind = iota
	Source
)

func (k BorderKind) String() string {
	if k == Source {
		return "Source"
	}
	return "Sink"
}

// BorderEntry attaches an off-grid task to a boundary channel.
type BorderEntry struct {
	Kind BorderKind
	Task int
}

// RoutingLoads holds the directions of one core currently carrying load,
// split by target: the core's output channels and its boundary source channels.
type RoutingLoads struct {
	Output map[Direction]uint64
	Source map[Direction]uint64
}

// RoutingMap maps core ids to their loaded directions.
type RoutingMap map[int]*RoutingLoads

// Add accumulates load on the given core and direction.
func (m RoutingMap) Add(core int, d Direction, source bool, load uint64) {
	rl, ok := m[core]
	if !ok {
		rl = &RoutingLoads{Output: map[Direction]uint64{}, Source: map[Direction]uint64{}}
		m[core] = rl
	}
	if source {
		rl.Source[d] += load
		return
	}
	rl.Output[d] += load
}

// Topology is the complete mesh description.
type Topology struct {
	Rows    int
	Columns int
	Cores   []*Core
	Tasks   []*Task
	Borders map[int]map[Direction]BorderEntry
	Routing RoutingMap // optional precomputed routing

	taskIndex map[int]int
}

// New builds a rows × columns topology with idle, unwired cores.
// Callers fill in channels, attributes and tasks afterwards.
func New(rows, columns int) *Topology {
	t := &Topology{Rows: rows, Columns: columns, Borders: map[int]map[Direction]BorderEntry{}}
	if rows < 0 || columns < 0 {
		return t
	}
	t.Cores = make([]*Core, 0, rows*columns)
	for i := 0; i < rows*columns; i++ {
		t.Cores = append(t.Cores, &Core{
			ID:         i,
			Row:        i / columns,
			Column:     i % columns,
			Attributes: Attributes{},
			Router:     Attributes{},
			Channels:   map[Direction]*Channel{},
		})
	}
	return t
}

// Core returns the core with the given id.
func (t *Topology) Core(id int) (*Core, bool) {
	if id < 0 || id >= len(t.Cores) {
		return nil, false
	}
	return t.Cores[id], true
}

// Neighbour returns the id of the core one hop from id towards d.
// The second result is false when d points off the grid.
func (t *Topology) Neighbour(id int, d Direction) (int, bool) {
	c, ok := t.Core(id)
	if !ok {
		return 0, false
	}
	dr, dc := d.Step()
	r, col := c.Row+dr, c.Column+dc
	if r < 0 || r >= t.Rows || col < 0 || col >= t.Columns {
		return 0, false
	}
	return r*t.Columns + col, true
}

// OnBoundary reports whether direction d of core id points off the grid.
func (t *Topology) OnBoundary(id int, d Direction) bool {
	_, ok := t.Neighbour(id, d)
	return !ok
}

// AddTask registers a task, optionally allocating it to a core.
func (t *Topology) AddTask(task *Task, core *int) {
	t.Tasks = append(t.Tasks, task)
	t.taskIndex = nil
	if core != nil {
		if c, ok := t.Core(*core); ok {
			id := task.ID
			c.Task = &id
		}
	}
}

// Task returns the task with the given id.
func (t *Topology) Task(id int) (*Task, bool) {
	if t.taskIndex == nil || len(t.taskIndex) != len(t.Tasks) {
		t.taskIndex = make(map[int]int, len(t.Tasks))
		for i, task := range t.Tasks {
			t.taskIndex[task.ID] = i
		}
	}
	i, ok := t.taskIndex[id]
	if !ok {
		return nil, false
	}
	return t.Tasks[i], true
}

// TaskCore returns the id of the core the task is allocated to.
func (t *Topology) TaskCore(taskID int) (int, bool) {
	for _, c := range t.Cores {
		if c.Task != nil && *c.Task == taskID {
			return c.ID, true
		}
	}
	return 0, false
}

// BorderCores returns the ids of cores that carry border entries, ascending.
func (t *Topology) BorderCores() []int {
	ids := make([]int, 0, len(t.Borders))
	for id := range t.Borders {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Validate checks the structural invariants the renderer relies on.
func (t *Topology) Validate() error {
	if t.Rows <= 0 || t.Columns <= 0 {
		return errors.New(errors.ErrCodeInvalidTopology, "grid must have at least one row and column, got %dx%d", t.Rows, t.Columns)
	}
	if len(t.Cores) != t.Rows*t.Columns {
		return errors.New(errors.ErrCodeInvalidTopology, "expected %d cores for a %dx%d grid, got %d",
			t.Rows*t.Columns, t.Rows, t.Columns, len(t.Cores))
	}
	for i, c := range t.Cores {
		if c.ID != i || c.Row != i/t.Columns || c.Column != i%t.Columns {
			return errors.New(errors.ErrCodeInvalidTopology, "core %d has inconsistent position (%d,%d)", i, c.Row, c.Column)
		}
		for d, ch := range c.Channels {
			if !d.Valid() {
				return errors.New(errors.ErrCodeInvalidTopology, "core %d has a channel with invalid direction %d", i, d)
			}
			if ch != nil && ch.Direction != d {
				return errors.New(errors.ErrCodeInvalidTopology, "core %d channel %s reports direction %s", i, d, ch.Direction)
			}
		}
		if c.Task != nil {
			if _, ok := t.Task(*c.Task); !ok {
				return errors.New(errors.ErrCodeInvalidTopology, "core %d is allocated unknown task %d", i, *c.Task)
			}
		}
	}
	for id, entries := range t.Borders {
		if _, ok := t.Core(id); !ok {
			return errors.New(errors.ErrCodeInvalidTopology, "border entry references unknown core %d", id)
		}
		for d := range entries {
			if !d.Valid() || !t.OnBoundary(id, d) {
				return errors.New(errors.ErrCodeInvalidTopology, "core %d has a border entry facing %s, which is not on the boundary", id, d)
			}
		}
	}
	return nil
}
