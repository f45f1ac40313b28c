package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshview/pkg/cache"
	"github.com/matzehuels/meshview/pkg/config"
	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/render/mesh"
	"github.com/matzehuels/meshview/pkg/topology"
)

const topologyJSON = `{
  "rows": 1, "columns": 2,
  "cores": [
    {"attributes": {"temperature": 41}, "task": 3,
     "channels": {"East": {"bandwidth": 100}}},
    {"task": 4, "channels": {"West": {"bandwidth": 100}}}
  ],
  "tasks": [
    {"id": 3, "computationCost": 40, "edges": [{"to": 4, "communicationCost": 10}]},
    {"id": 4, "computationCost": 12}
  ]
}`

const configTOML = `
[core.temperature]
type = "Text"
display = "Temp"

[channel."@load"]
type = "Routing"
algorithm = "RowFirst"
colourSettings = { bounds = [25, 50, 75, 100], colours = ["green", "yellow", "orange", "red"] }
`

func writeInputs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	topo := filepath.Join(dir, "mesh.json")
	cfg := filepath.Join(dir, "display.toml")
	if err := os.WriteFile(topo, []byte(topologyJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg, []byte(configTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	return topo, cfg
}

func quietRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	return NewRunner(c, nil, log.New(&logs))
}

func TestLoad(t *testing.T) {
	topoPath, cfgPath := writeInputs(t)

	topo, cfg, err := Load(topoPath, cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if topo.Columns != 2 || cfg.Core.Len() != 1 {
		t.Errorf("Load() = %dx%d, %d core fields", topo.Rows, topo.Columns, cfg.Core.Len())
	}

	_, cfg, err = Load(topoPath, "")
	if err != nil || cfg.Core.Len() != 0 {
		t.Errorf("Load() without config = %v, %v", cfg, err)
	}

	if _, _, err := Load(filepath.Join(t.TempDir(), "missing.json"), ""); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRenderCaches(t *testing.T) {
	ctx := context.Background()
	topoPath, cfgPath := writeInputs(t)
	topo, cfg, err := Load(topoPath, cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(t)
	defer r.Close()

	first, err := r.Render(ctx, Options{Topology: topo, Config: cfg})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if first.CacheHit || first.Document == nil {
		t.Fatal("first render should miss the cache")
	}
	if first.Stats.Cores != 2 || first.Stats.Links == 0 {
		t.Errorf("Stats = %+v", first.Stats)
	}
	if !strings.Contains(string(first.SVG), "#link-0-east-out{stroke:green}") {
		t.Errorf("routed load missing from stylesheet")
	}

	second, err := r.Render(ctx, Options{Topology: topo, Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit || second.Document != nil {
		t.Error("second render should come from the cache")
	}
	if !bytes.Equal(first.SVG, second.SVG) || first.TopologyHash != second.TopologyHash {
		t.Error("cached render differs")
	}

	refreshed, err := r.Render(ctx, Options{Topology: topo, Config: cfg, Refresh: true})
	if err != nil || refreshed.CacheHit {
		t.Errorf("Refresh should bypass the cache: hit=%v err=%v", refreshed.CacheHit, err)
	}

	larger, err := r.Render(ctx, Options{Topology: topo, Config: cfg,
		Base: config.BaseConfiguration{AttributeFontSize: 20, TaskFontSize: 30}})
	if err != nil || larger.CacheHit {
		t.Errorf("a different base configuration must not hit: hit=%v err=%v", larger.CacheHit, err)
	}

	toggled, err := r.Render(ctx, Options{Topology: topo, Config: cfg, Toggles: []int{3}})
	if err != nil || toggled.CacheHit {
		t.Fatalf("toggled render: hit=%v err=%v", toggled.CacheHit, err)
	}
	if !toggled.Document.Computed(3) || !strings.Contains(string(toggled.SVG), ">C: 40<") {
		t.Error("toggle was not applied")
	}
}

func TestRenderErrors(t *testing.T) {
	r := NewRunner(nil, nil, log.New(&bytes.Buffer{}))

	if _, err := r.Render(context.Background(), Options{}); err == nil {
		t.Error("Render() without a topology should fail")
	}

	topo := topology.New(1, 1)
	bad := config.New()
	bad.Core.Set(config.CoordinatesKey, config.Boolean{Value: true})
	if _, err := r.Render(context.Background(), Options{Topology: topo, Config: bad}); !errors.Is(err, errors.ErrCodeConfigurationShape) {
		t.Errorf("Render() error = %v, want CONFIGURATION_SHAPE", err)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	topoPath, cfgPath := writeInputs(t)
	topo, cfg, err := Load(topoPath, cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(nil, nil, log.New(&bytes.Buffer{}))

	res, err := r.Render(ctx, Options{Topology: topo, Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	up, err := r.Update(ctx, res.Document, mesh.UpdateRequest{Toggles: []int{4}})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !strings.Contains(up.Overlay, ">C: 12<") {
		t.Errorf("Update() overlay misses the computed badge:\n%s", up.Overlay)
	}

	if _, err := r.Update(ctx, res.Document, mesh.UpdateRequest{Toggles: []int{99}}); !errors.Is(err, errors.ErrCodeTopologyMismatch) {
		t.Errorf("Update() error = %v, want TOPOLOGY_MISMATCH", err)
	}
}

func TestDOT(t *testing.T) {
	ctx := context.Background()
	topoPath, _ := writeInputs(t)
	topo, _, err := Load(topoPath, "")
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(t)

	data, hit, err := r.DOT(ctx, DOTOptions{Topology: topo, Algorithm: "RowFirst"})
	if err != nil || hit {
		t.Fatalf("DOT() = hit %v, err %v", hit, err)
	}
	if !strings.Contains(string(data), `"core-0" -> "core-1" [label="10/100"]`) {
		t.Errorf("DOT() misses the routed load:\n%s", data)
	}

	again, hit, err := r.DOT(ctx, DOTOptions{Topology: topo, Algorithm: "RowFirst"})
	if err != nil || !hit || !bytes.Equal(data, again) {
		t.Errorf("second DOT() = hit %v, err %v", hit, err)
	}

	if _, _, err := r.DOT(ctx, DOTOptions{Topology: topo, Format: "png"}); err == nil {
		t.Error("DOT() accepted an unknown format")
	}
	if _, _, err := r.DOT(ctx, DOTOptions{Topology: topo, Algorithm: "Diagonal"}); err == nil {
		t.Error("DOT() accepted an unknown algorithm")
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"SVG", true},
		{"png", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormatCode(t *testing.T) {
	if err := ValidateFormat("png"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(png) = %v, want INVALID_FORMAT", err)
	}
	opts := DOTOptions{}
	if err := opts.Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("DOTOptions{}.Validate() = %v, want INVALID_INPUT", err)
	}
}
