package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/session"
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

type fixture struct {
	dir      string
	topology string
	config   string
	sessions string
	cache    string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:      dir,
		topology: filepath.Join(dir, "mesh.json"),
		config:   filepath.Join(dir, "display.toml"),
		sessions: filepath.Join(dir, "sessions"),
		cache:    filepath.Join(dir, "cache"),
	}
	if err := os.WriteFile(f.topology, []byte(topologyJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f.config, []byte(configTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	return f
}

// run executes the CLI with the fixture's storage flags.
func (f fixture) run(t *testing.T, args ...string) error {
	t.Helper()
	var logs bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	root.SetArgs(append(args, "--cache-dir", f.cache, "--session-dir", f.sessions))
	root.SetOut(&logs)
	root.SetErr(&logs)
	return root.ExecuteContext(context.Background())
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRenderCommand(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "out", "mesh.svg")

	if err := f.run(t, "render", f.topology, "-c", f.config, "-o", out); err != nil {
		t.Fatalf("render error = %v", err)
	}
	svg := readFile(t, out)
	if !strings.HasPrefix(svg, "<svg") || !strings.Contains(svg, "#link-0-east-out{stroke:green}") {
		t.Errorf("render wrote an unexpected document:\n%s", svg)
	}

	// Cached renders produce the same bytes.
	again := filepath.Join(f.dir, "again.svg")
	if err := f.run(t, "render", f.topology, "-c", f.config, "-o", again); err != nil {
		t.Fatal(err)
	}
	if readFile(t, again) != svg {
		t.Error("cached render differs from the first render")
	}
}

func TestRenderSessionAndUpdate(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "mesh.svg")

	if err := f.run(t, "render", f.topology, "-c", f.config, "-o", out, "--session"); err != nil {
		t.Fatalf("render --session error = %v", err)
	}
	store, err := session.NewFileStore(f.sessions)
	if err != nil {
		t.Fatal(err)
	}
	ids, err := store.List(context.Background())
	if err != nil || len(ids) != 1 {
		t.Fatalf("sessions = %v, %v, want one", ids, err)
	}
	id := ids[0]

	updated := filepath.Join(f.dir, "updated.svg")
	if err := f.run(t, "update", id, "--toggle", "3", "-o", updated); err != nil {
		t.Fatalf("update error = %v", err)
	}
	if !strings.Contains(readFile(t, updated), ">C: 40<") {
		t.Error("updated document does not show the task cost")
	}

	shown := filepath.Join(f.dir, "shown.svg")
	if err := f.run(t, "session", "show", id, "-o", shown); err != nil {
		t.Fatal(err)
	}
	if readFile(t, shown) != readFile(t, updated) {
		t.Error("stored document differs from the update output")
	}

	err = f.run(t, "update", id, "--toggle", "99")
	if !errors.Is(err, errors.ErrCodeTopologyMismatch) {
		t.Errorf("update with unknown task error = %v, want TOPOLOGY_MISMATCH", err)
	}

	if err := f.run(t, "session", "delete", id); err != nil {
		t.Fatal(err)
	}
	err = f.run(t, "update", id, "--toggle", "3")
	if !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("update after delete error = %v, want SESSION_NOT_FOUND", err)
	}
}

func TestRenderErrors(t *testing.T) {
	f := newFixture(t)

	err := f.run(t, "render", filepath.Join(f.dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing topology error = %v, want FILE_NOT_FOUND", err)
	}
	err = f.run(t, "render", f.topology, "--toggle", "3,x")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad toggle error = %v, want INVALID_INPUT", err)
	}
}

func TestDOTCommand(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "mesh.dot")

	if err := f.run(t, "dot", f.topology, "--algorithm", "RowFirst", "-o", out); err != nil {
		t.Fatalf("dot error = %v", err)
	}
	if dot := readFile(t, out); !strings.Contains(dot, `"core-0" -> "core-1" [label="10/100"]`) {
		t.Errorf("dot output missing the loaded edge:\n%s", dot)
	}

	if err := f.run(t, "dot", f.topology, "--format", "png"); err == nil {
		t.Error("dot --format png succeeded")
	}
}
