package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %q, %v, %v; want a miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := RenderKeyOpts{ConfigHash: "c1", AttributeFontSize: 16, TaskFontSize: 22}
	tests := []struct {
		name string
		opts RenderKeyOpts
	}{
		{"config", RenderKeyOpts{ConfigHash: "c2", AttributeFontSize: 16, TaskFontSize: 22}},
		{"attribute size", RenderKeyOpts{ConfigHash: "c1", AttributeFontSize: 18, TaskFontSize: 22}},
		{"task size", RenderKeyOpts{ConfigHash: "c1", AttributeFontSize: 16, TaskFontSize: 20}},
		{"toggles", RenderKeyOpts{ConfigHash: "c1", AttributeFontSize: 16, TaskFontSize: 22, Toggles: []int{3}}},
	}
	want := k.RenderKey("topo", base)
	if !strings.HasPrefix(want, "render:") {
		t.Errorf("RenderKey() = %q, want render: prefix", want)
	}
	if k.RenderKey("topo", base) != want {
		t.Error("RenderKey() is not deterministic")
	}
	if k.RenderKey("other", base) == want {
		t.Error("different topologies share a key")
	}
	for _, tt := range tests {
		if k.RenderKey("topo", tt.opts) == want {
			t.Errorf("changing %s does not change the key", tt.name)
		}
	}

	d1 := k.DOTKey("topo", DOTKeyOpts{Format: "dot"})
	d2 := k.DOTKey("topo", DOTKeyOpts{Format: "svg"})
	if d1 == d2 || !strings.HasPrefix(d1, "dot:") {
		t.Errorf("DOTKey() = %q, %q", d1, d2)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:a:")

	opts := RenderKeyOpts{ConfigHash: "c"}
	if got, want := scoped.RenderKey("h", opts), "tenant:a:"+inner.RenderKey("h", opts); got != want {
		t.Errorf("RenderKey() = %q, want %q", got, want)
	}
	if got := NewScopedKeyer(nil, "p:").DOTKey("h", DOTKeyOpts{}); !strings.HasPrefix(got, "p:dot:") {
		t.Errorf("nil inner keyer: DOTKey() = %q", got)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = %v, %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Fatalf("Get(k) = %q, %v, %v", data, hit, err)
	}

	now = now.Add(2 * time.Hour)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry was returned")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry was not removed")
	}

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	now = now.Add(1000 * time.Hour)
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl expired")
	}

	if err := c.Delete(ctx, "forever"); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "forever"); err != nil {
		t.Errorf("second Delete() = %v", err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get(corrupt) = %v, %v; want a miss", hit, err)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	base := errors.New("boom")
	err := Retryable(base)
	if !IsRetryable(err) || !errors.Is(err, base) || err.Error() != "boom" {
		t.Errorf("Retryable(%v) = %v", base, err)
	}
	if IsRetryable(base) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond
	ctx := context.Background()
	permanent := errors.New("permanent")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, nil, 1, false},
		{"permanent", 5, permanent, 1, true},
		{"recovers", 1, Retryable(permanent), 2, false},
		{"gives up", 5, Retryable(permanent), 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("RetryWithBackoff() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error { return Retryable(errors.New("net")) })
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("MESHVIEW_TEST_REDIS")
	if addr == "" {
		t.Skip("MESHVIEW_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: "meshview:test:" + t.Name() + ":"})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("Get() before Set = %v, %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if data, hit, err := c.Get(ctx, "k"); !hit || err != nil || string(data) != "v" {
		t.Errorf("Get() = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
}
