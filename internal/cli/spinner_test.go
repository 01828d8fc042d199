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

// waitFor polls until cond holds or a second has passed.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met within 1s")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSpinnerDrawsAndUpdatesMessage(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Converting...")
	s.Start()
	waitFor(t, func() bool { return strings.Contains(out.String(), "Converting...") })

	s.SetMessage("Converting %d/%d...", 2, 5)
	waitFor(t, func() bool { return strings.Contains(out.String(), "Converting 2/5...") })
	s.Stop()

	if !strings.HasSuffix(out.String(), "\r") {
		t.Errorf("Stop did not clear the line: %q", out.String())
	}
}

func TestSpinnerStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerTo(ctx, &syncBuffer{}, "Rendering")
	s.Start()
	cancel()

	waitFor(t, func() bool {
		select {
		case <-s.exited:
			return true
		default:
			return false
		}
	})
	s.Stop()
}

func TestSpinnerLifecycle(t *testing.T) {
	tests := []struct {
		name string
		run  func(*Spinner)
	}{
		{"stop twice", func(s *Spinner) { s.Start(); s.Stop(); s.Stop() }},
		{"start twice", func(s *Spinner) { s.Start(); s.Start(); s.Stop() }},
		{"stop without start", func(s *Spinner) { s.Stop() }},
		{"start after stop", func(s *Spinner) { s.Stop(); s.Start(); s.Stop() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out syncBuffer
			done := make(chan struct{})
			go func() {
				tt.run(newSpinnerTo(context.Background(), &out, "Rendering"))
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("spinner blocked")
			}
		})
	}
}
