package topology

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/meshview/pkg/errors"
)

type jsonChannel struct {
	Bandwidth  uint64     `json:"bandwidth"`
	Load       uint64     `json:"load"`
	Attributes Attributes `json:"attributes,omitempty"`
}

type jsonRouter struct {
	Attributes Attributes `json:"attributes,omitempty"`
}

type jsonCore struct {
	Attributes Attributes                 `json:"attributes,omitempty"`
	Router     *jsonRouter                `json:"router,omitempty"`
	Task       *int                       `json:"task,omitempty"`
	Channels   map[Direction]*jsonChannel `json:"channels,omitempty"`
}

type jsonEdge struct {
	To                int    `json:"to"`
	CommunicationCost uint64 `json:"communicationCost"`
}

type jsonTask struct {
	ID              int        `json:"id"`
	ComputationCost uint64     `json:"computationCost"`
	Edges           []jsonEdge `json:"edges,omitempty"`
}

type jsonBorder struct {
	Sink   *int `json:"sink,omitempty"`
	Source *int `json:"source,omitempty"`
}

type jsonRouting struct {
	Output map[Direction]uint64 `json:"output,omitempty"`
	Source map[Direction]uint64 `json:"source,omitempty"`
}

type jsonTopology struct {
	Rows    int                                 `json:"rows"`
	Columns int                                 `json:"columns"`
	Cores   []jsonCore                          `json:"cores"`
	Tasks   []jsonTask                          `json:"tasks,omitempty"`
	Borders map[string]map[Direction]jsonBorder `json:"borders,omitempty"`
	Routing map[string]jsonRouting              `json:"routing,omitempty"`
}

// ReadJSON decodes a JSON topology from r and validates it.
//
// The core list must hold exactly rows × columns entries; the index of an
// entry is the core id. Border and routing maps are keyed by the decimal
// core id. Each border entry holds exactly one of "sink" or "source".
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - A direction name is unknown
//   - A border entry is empty or holds both a sink and a source
//   - The decoded topology fails [Topology.Validate]
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Topology, error) {
	var data jsonTopology
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTopology, err, "decode")
	}
	if data.Rows <= 0 || data.Columns <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidTopology, "grid must have at least one row and column, got %dx%d", data.Rows, data.Columns)
	}
	if len(data.Cores) != data.Rows*data.Columns {
		return nil, errors.New(errors.ErrCodeInvalidTopology, "expected %d cores for a %dx%d grid, got %d",
			data.Rows*data.Columns, data.Rows, data.Columns, len(data.Cores))
	}

	t := New(data.Rows, data.Columns)
	for _, jt := range data.Tasks {
		task := &Task{ID: jt.ID, ComputationCost: jt.ComputationCost}
		for _, e := range jt.Edges {
			task.Edges = append(task.Edges, TaskEdge{To: e.To, CommunicationCost: e.CommunicationCost})
		}
		t.AddTask(task, nil)
	}

	for i, jc := range data.Cores {
		c := t.Cores[i]
		if jc.Attributes != nil {
			c.Attributes = jc.Attributes
		}
		if jc.Router != nil && jc.Router.Attributes != nil {
			c.Router = jc.Router.Attributes
		}
		c.Task = jc.Task
		for d, ch := range jc.Channels {
			if ch == nil {
				continue
			}
			c.Channels[d] = &Channel{Direction: d, Bandwidth: ch.Bandwidth, Load: ch.Load, Attributes: ch.Attributes}
		}
	}

	for key, entries := range data.Borders {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTopology, err, "border key %q", key)
		}
		m := make(map[Direction]BorderEntry, len(entries))
		for d, b := range entries {
			switch {
			case b.Sink != nil && b.Source == nil:
				m[d] = BorderEntry{Kind: Sink, Task: *b.Sink}
			case b.Source != nil && b.Sink == nil:
				m[d] = BorderEntry{Kind: Source, Task: *b.Source}
			default:
				return nil, errors.New(errors.ErrCodeInvalidTopology, "border %d %s must hold exactly one of sink or source", id, d)
			}
		}
		t.Borders[id] = m
	}

	if len(data.Routing) > 0 {
		t.Routing = RoutingMap{}
		for key, jr := range data.Routing {
			id, err := strconv.Atoi(key)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidTopology, err, "routing key %q", key)
			}
			for d, load := range jr.Output {
				t.Routing.Add(id, d, false, load)
			}
			for d, load := range jr.Source {
				t.Routing.Add(id, d, true, load)
			}
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// ImportJSON reads a JSON file at path and returns the decoded topology.
// The error wraps the underlying cause with the file path for context.
func ImportJSON(path string) (*Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes t in the format read by [ReadJSON].
func WriteJSON(w io.Writer, t *Topology) error {
	data := jsonTopology{Rows: t.Rows, Columns: t.Columns, Cores: make([]jsonCore, len(t.Cores))}
	for i, c := range t.Cores {
		jc := jsonCore{Task: c.Task}
		if len(c.Attributes) > 0 {
			jc.Attributes = c.Attributes
		}
		if len(c.Router) > 0 {
			jc.Router = &jsonRouter{Attributes: c.Router}
		}
		for d, ch := range c.Channels {
			if ch == nil {
				continue
			}
			if jc.Channels == nil {
				jc.Channels = map[Direction]*jsonChannel{}
			}
			jc.Channels[d] = &jsonChannel{Bandwidth: ch.Bandwidth, Load: ch.Load, Attributes: ch.Attributes}
		}
		data.Cores[i] = jc
	}
	for _, task := range t.Tasks {
		jt := jsonTask{ID: task.ID, ComputationCost: task.ComputationCost}
		for _, e := range task.Edges {
			jt.Edges = append(jt.Edges, jsonEdge{To: e.To, CommunicationCost: e.CommunicationCost})
		}
		data.Tasks = append(data.Tasks, jt)
	}
	if len(t.Borders) > 0 {
		data.Borders = make(map[string]map[Direction]jsonBorder, len(t.Borders))
		for id, entries := range t.Borders {
			m := make(map[Direction]jsonBorder, len(entries))
			for d, e := range entries {
				task := e.Task
				if e.Kind == Source {
					m[d] = jsonBorder{Source: &task}
				} else {
					m[d] = jsonBorder{Sink: &task}
				}
			}
			data.Borders[strconv.Itoa(id)] = m
		}
	}
	if len(t.Routing) > 0 {
		data.Routing = make(map[string]jsonRouting, len(t.Routing))
		for id, rl := range t.Routing {
			if rl == nil {
				continue
			}
			data.Routing[strconv.Itoa(id)] = jsonRouting{Output: rl.Output, Source: rl.Source}
		}
	}
	enc := json.NewEncoder(w)
	return enc.Encode(data)
}
