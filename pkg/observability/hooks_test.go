package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRenderHooks{}
	r.OnRenderStart(ctx, 4, 4)
	r.OnRenderComplete(ctx, 16, time.Second, nil)
	r.OnUpdate(ctx, true, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "render")
	c.OnCacheMiss(ctx, "dot")
	c.OnCacheSet(ctx, "render", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "POST", "/documents")
	s.OnResponse(ctx, "POST", "/documents", 201, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	render := &countingRenderHooks{}
	SetRenderHooks(render)
	if Render() != render {
		t.Error("SetRenderHooks should set custom hooks")
	}
	Render().OnUpdate(context.Background(), false, 0, nil)
	if render.updates != 1 {
		t.Errorf("custom hooks saw %d updates, want 1", render.updates)
	}

	cache := &testCacheHooks{}
	SetCacheHooks(cache)
	if Cache() != cache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	server := &testServerHooks{}
	SetServerHooks(server)
	if Server() != server {
		t.Error("SetServerHooks should set custom hooks")
	}

	Reset()
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Reset() should restore NoopRenderHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &countingRenderHooks{}
	SetRenderHooks(custom)
	SetRenderHooks(nil)

	if Render() != custom {
		t.Error("SetRenderHooks(nil) should be ignored")
	}
}

type countingRenderHooks struct {
	NoopRenderHooks
	updates int
}

func (h *countingRenderHooks) OnUpdate(context.Context, bool, time.Duration, error) { h.updates++ }

type testCacheHooks struct{ NoopCacheHooks }
type testServerHooks struct{ NoopServerHooks }
