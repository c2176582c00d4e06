package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/br-lazy-bird/content-delivery/internal/blog"
	"github.com/br-lazy-bird/content-delivery/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 100; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeHealth struct {
	calls atomic.Int32
	err   error
}

func (f *fakeHealth) FetchHealth(context.Context) (blog.Health, error) {
	f.calls.Add(1)
	if f.err != nil {
		return blog.Health{}, f.err
	}
	return blog.Health{Status: "healthy", Service: "backend"}, nil
}

func TestRefresh_UpdatesStore(t *testing.T) {
	store := &state.Store{}

	if err := refresh(context.Background(), store, &fakeHealth{}, nil); err != nil {
		t.Fatalf("refresh() error = %v", err)
	}
	snap := store.Snapshot()
	if !snap.HasHealth || !snap.Health.Healthy() {
		t.Fatalf("snapshot health = %#v, want healthy", snap.Health)
	}

	boom := errors.New("connection refused")
	_ = refresh(context.Background(), store, &fakeHealth{err: boom}, nil)
	_ = refresh(context.Background(), store, &fakeHealth{err: boom}, nil)
	snap = store.Snapshot()
	if !snap.IsOffline() {
		t.Fatalf("IsOffline() = false after two failed polls, want true")
	}
	if !errors.Is(snap.LastError, boom) {
		t.Fatalf("LastError = %v, want %v", snap.LastError, boom)
	}
}

func TestRefresh_CancelledContextLeavesStore(t *testing.T) {
	store := &state.Store{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_ = refresh(ctx, store, &fakeHealth{err: context.Canceled}, nil)
	if got := store.Snapshot().ConsecutiveFailures; got != 0 {
		t.Fatalf("ConsecutiveFailures = %d after shutdown, want 0", got)
	}
}

func TestStartPoller_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := &state.Store{}
	client := &fakeHealth{}
	ctx, cancel := context.WithCancel(context.Background())

	done := StartPoller(ctx, store, client, 5*time.Millisecond, nil)

	deadline := time.Now().Add(2 * time.Second)
	for client.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if client.calls.Load() < 2 {
		t.Fatalf("poller made %d calls, want at least 2", client.calls.Load())
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("poller did not stop after cancel")
	}
	if !store.Snapshot().HasHealth {
		t.Fatalf("HasHealth = false, want true after polling")
	}
}

func TestRefresh_FailureWithoutLogger(t *testing.T) {
	store := &state.Store{}

	err := refresh(context.Background(), store, &fakeHealth{err: errors.New("down")}, nil)
	if err == nil {
		t.Fatalf("refresh() error = nil, want failure")
	}
	if got := store.Snapshot().ConsecutiveFailures; got != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", got)
	}
}
