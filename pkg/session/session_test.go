package session

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/render/mesh"
	"github.com/matzehuels/meshview/pkg/topology"
)

func snapshot(t *testing.T) (*mesh.Document, *mesh.Snapshot) {
	t.Helper()
	topo := topology.New(1, 2)
	topo.Cores[0].Channels[topology.East] = &topology.Channel{Direction: topology.East, Bandwidth: 10}
	topo.Cores[0].Attributes["name"] = topology.Str("left")
	doc, err := mesh.Render(topo, nil)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := doc.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	return doc, snap
}

func TestNew(t *testing.T) {
	_, snap := snapshot(t)
	a, err := New(snap, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := New(snap, time.Hour)
	if a.ID == b.ID {
		t.Error("New() reused an id")
	}
	if !ValidID(a.ID) {
		t.Errorf("New() id %q is not valid", a.ID)
	}
	if a.IsExpired() {
		t.Error("fresh session is expired")
	}
	if !errors.Is(NotFound(a.ID), errors.ErrCodeSessionNotFound) {
		t.Error("NotFound() has the wrong code")
	}
}

func TestValidID(t *testing.T) {
	for _, id := range []string{"", "../etc/passwd", "abc", "local-session"} {
		if ValidID(id) {
			t.Errorf("ValidID(%q) = true", id)
		}
	}
}

func TestDocumentResumes(t *testing.T) {
	doc, snap := snapshot(t)
	sess, err := New(snap, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	resumed, err := sess.Document()
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if !bytes.Equal(resumed.SVG(), doc.SVG()) {
		t.Error("resumed document differs from the original")
	}

	if _, err := (&Session{ID: "x"}).Document(); err == nil {
		t.Error("Document() without a snapshot should fail")
	}
}

func stores(t *testing.T) map[string]Store {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "sessions"))
	if err != nil {
		t.Fatal(err)
	}
	return map[string]Store{"memory": NewMemoryStore(), "file": fs}
}

func TestStores(t *testing.T) {
	ctx := context.Background()
	_, snap := snapshot(t)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			live, _ := New(snap, time.Hour)
			expired, _ := New(snap, time.Hour)
			expired.ExpiresAt = time.Now().Add(-time.Minute)

			for _, s := range []*Session{live, expired} {
				if err := store.Set(ctx, s); err != nil {
					t.Fatalf("Set() error = %v", err)
				}
			}

			got, err := store.Get(ctx, live.ID)
			if err != nil || got == nil {
				t.Fatalf("Get(live) = %v, %v", got, err)
			}
			if _, err := got.Document(); err != nil {
				t.Errorf("stored snapshot does not resume: %v", err)
			}

			if got, err := store.Get(ctx, expired.ID); got != nil || err != nil {
				t.Errorf("Get(expired) = %v, %v; want nil, nil", got, err)
			}

			ids, err := store.List(ctx)
			if err != nil || len(ids) != 1 || ids[0] != live.ID {
				t.Errorf("List() = %v, %v; want [%s]", ids, err, live.ID)
			}

			if err := store.Cleanup(ctx); err != nil {
				t.Errorf("Cleanup() error = %v", err)
			}
			if err := store.Delete(ctx, live.ID); err != nil {
				t.Fatal(err)
			}
			if err := store.Delete(ctx, live.ID); err != nil {
				t.Errorf("second Delete() = %v", err)
			}
			if got, _ := store.Get(ctx, live.ID); got != nil {
				t.Error("Get() after Delete returned a session")
			}
		})
	}
}

func TestFileStoreCleanupRemovesFiles(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, snap := snapshot(t)
	s, _ := New(snap, time.Hour)
	s.ExpiresAt = time.Now().Add(-time.Second)
	if err := store.Set(ctx, s); err != nil {
		t.Fatal(err)
	}
	if err := store.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(store.sessionPath(s.ID)); !os.IsNotExist(err) {
		t.Error("Cleanup() kept an expired session file")
	}
}

func TestFileStoreRejectsPaths(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(context.Background(), &Session{ID: "../escape"}); err == nil {
		t.Error("Set() accepted a path as id")
	}
	if got, err := store.Get(context.Background(), "../escape"); got != nil || err != nil {
		t.Errorf("Get(path) = %v, %v", got, err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("MESHVIEW_TEST_REDIS")
	if addr == "" {
		t.Skip("MESHVIEW_TEST_REDIS not set")
	}
	ctx := context.Background()
	store, err := NewRedisStore(ctx, RedisConfig{Addr: addr, Prefix: "meshview:test:" + t.Name() + ":"})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	_, snap := snapshot(t)
	s, _ := New(snap, time.Minute)
	if err := store.Set(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, s.ID)
	if err != nil || got == nil || got.ID != s.ID {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
}
