package routing

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/topology"
)

// meshWithChannels builds a fully wired rows × cols mesh, including
// channels on boundary directions.
func meshWithChannels(rows, cols int) *topology.Topology {
	t := topology.New(rows, cols)
	for _, c := range t.Cores {
		for _, d := range topology.Directions {
			c.Channels[d] = &topology.Channel{Direction: d, Bandwidth: 100}
		}
	}
	return t
}

func loads(m topology.RoutingMap) map[int]map[string]uint64 {
	out := map[int]map[string]uint64{}
	for id, rl := range m {
		entry := map[string]uint64{}
		for d, v := range rl.Output {
			entry["out:"+d.String()] = v
		}
		for d, v := range rl.Source {
			entry["src:"+d.String()] = v
		}
		out[id] = entry
	}
	return out
}

func TestDimensionOrdered(t *testing.T) {
	topo := meshWithChannels(2, 2)
	a, b := 0, 3
	topo.AddTask(&topology.Task{ID: 1, Edges: []topology.TaskEdge{{To: 2, CommunicationCost: 10}}}, &a)
	topo.AddTask(&topology.Task{ID: 2}, &b)

	tests := []struct {
		name string
		alg  Algorithm
		want map[int]map[string]uint64
	}{
		{
			name: "row first goes east then south",
			alg:  RowFirst,
			want: map[int]map[string]uint64{
				0: {"out:East": 10},
				1: {"out:South": 10},
			},
		},
		{
			name: "column first goes south then east",
			alg:  ColumnFirst,
			want: map[int]map[string]uint64{
				0: {"out:South": 10},
				2: {"out:East": 10},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compute(topo, tt.alg)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, loads(m)); diff != "" {
				t.Errorf("loads mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSourcesAndSinks(t *testing.T) {
	topo := meshWithChannels(1, 2)
	left := 0
	topo.AddTask(&topology.Task{ID: 1, Edges: []topology.TaskEdge{{To: 50, CommunicationCost: 4}}}, &left)
	topo.AddTask(&topology.Task{ID: 60, Edges: []topology.TaskEdge{{To: 1, CommunicationCost: 6}}}, nil)
	topo.Borders[1] = map[topology.Direction]topology.BorderEntry{
		topology.East: {Kind: topology.Sink, Task: 50},
	}
	topo.Borders[0] = map[topology.Direction]topology.BorderEntry{
		topology.North: {Kind: topology.Source, Task: 60},
	}

	m, err := Compute(topo, RowFirst)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	want := map[int]map[string]uint64{
		0: {"out:East": 4, "src:North": 6},
		1: {"out:East": 4},
	}
	if diff := cmp.Diff(want, loads(m)); diff != "" {
		t.Errorf("loads mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingChannel(t *testing.T) {
	topo := topology.New(1, 2)
	a, b := 0, 1
	topo.AddTask(&topology.Task{ID: 1, Edges: []topology.TaskEdge{{To: 2, CommunicationCost: 1}}}, &a)
	topo.AddTask(&topology.Task{ID: 2}, &b)

	_, err := Compute(topo, RowFirst)
	if !errors.Is(err, errors.ErrCodeTopologyMismatch) {
		t.Fatalf("Compute() error = %v, want topology mismatch", err)
	}
}

func TestUnknownEdgeTarget(t *testing.T) {
	topo := meshWithChannels(1, 1)
	a := 0
	topo.AddTask(&topology.Task{ID: 1, Edges: []topology.TaskEdge{{To: 99, CommunicationCost: 1}}}, &a)

	_, err := Compute(topo, ColumnFirst)
	if !errors.Is(err, errors.ErrCodeTopologyMismatch) {
		t.Fatalf("Compute() error = %v, want topology mismatch", err)
	}
}

func TestObserved(t *testing.T) {
	topo := meshWithChannels(1, 2)
	topo.Cores[0].Channels[topology.East].Load = 30

	m, err := Compute(topo, Observed)
	if err != nil {
		t.Fatal(err)
	}
	if got := m[0].Output[topology.East]; got != 30 {
		t.Errorf("observed east load = %d, want 30", got)
	}

	topo.Routing = topology.RoutingMap{}
	topo.Routing.Add(1, topology.West, false, 5)
	m, _ = Compute(topo, Observed)
	if _, ok := m[0]; ok {
		t.Error("precomputed routing map should replace channel loads")
	}
}

func TestParse(t *testing.T) {
	for _, a := range Algorithms {
		if got, err := Parse(string(a)); err != nil || got != a {
			t.Errorf("Parse(%q) = %q, %v", a, got, err)
		}
	}
	if _, err := Parse("Adaptive"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Parse(Adaptive) error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadedOrder(t *testing.T) {
	got := Loaded(map[topology.Direction]uint64{topology.West: 1, topology.North: 2, topology.South: 3})
	want := []topology.Direction{topology.North, topology.South, topology.West}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Loaded() mismatch (-want +got):\n%s", diff)
	}
}
