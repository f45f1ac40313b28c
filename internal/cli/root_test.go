package cli

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	var logs bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()

	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	want := []string{"cache", "completion", "dot", "render", "serve", "session", "update", "version"}
	// cobra adds "help" lazily, and sorts commands by name.
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subcommands mismatch (-want +got):\n%s", diff)
	}

	for _, name := range []string{"no-cache", "cache-dir", "session-dir", "redis"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.Logger.Debug("hidden")
	if logs.Len() != 0 {
		t.Fatal("debug message written at info level")
	}
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")
	if logs.Len() == 0 {
		t.Error("debug message dropped at debug level")
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		var logs, out bytes.Buffer
		root := New(&logs, LogInfo).RootCommand()
		root.SetOut(&out)
		root.SetArgs([]string{"completion", shell})
		if err := root.Execute(); err != nil {
			t.Fatalf("completion %s error = %v", shell, err)
		}
		if !bytes.Contains(out.Bytes(), []byte("meshview")) {
			t.Errorf("completion %s script does not mention meshview", shell)
		}
	}

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"completion", "tcsh"})
	if err := root.Execute(); err == nil {
		t.Error("completion tcsh succeeded")
	}
}
