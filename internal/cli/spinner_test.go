package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func quietSpinner(ctx context.Context, msg string) (*Spinner, *syncBuffer) {
	var out syncBuffer
	s := newSpinnerWithContext(ctx, msg)
	s.w = &out
	return s, &out
}

func TestSpinnerDraws(t *testing.T) {
	s, out := quietSpinner(context.Background(), "Laying out graph...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Laying out graph...") {
		t.Errorf("spinner output = %q, want the message", out.String())
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "Stopping")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := quietSpinner(ctx, "Cancelled")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after cancellation")
	}
	s.Stop()
}
