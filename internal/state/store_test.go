package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/br-lazy-bird/content-delivery/internal/blog"
)

func TestStore_UpdateHealthAndSnapshot(t *testing.T) {
	var s Store

	before := time.Now()
	s.UpdateHealth(&blog.Health{Status: "healthy", Service: "backend"}, nil)

	snap := s.Snapshot()
	if !snap.HasHealth || snap.Health.Service != "backend" {
		t.Fatalf("snapshot health = %#v, want service=backend HasHealth=true", snap.Health)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
	if snap.IsOffline() {
		t.Fatalf("IsOffline() = true after a healthy poll")
	}
}

func TestStore_UpdateErrorKeepsPreviousHealth(t *testing.T) {
	var s Store

	s.UpdateHealth(&blog.Health{Status: "healthy", Service: "backend"}, nil)

	origErr := errors.New("boom")
	s.UpdateHealth(nil, origErr)

	snap := s.Snapshot()
	if !snap.HasHealth || snap.Health.Status != "healthy" {
		t.Fatalf("health changed on error: got %#v", snap.Health)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError = %v, want wrapping %v", snap.LastError, origErr)
	}
	if snap.ConsecutiveFailures != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", snap.ConsecutiveFailures)
	}
}

func TestSnapshot_IsOffline(t *testing.T) {
	var s Store

	s.UpdateHealth(nil, errors.New("one"))
	if s.Snapshot().IsOffline() {
		t.Fatalf("IsOffline() = true after one failure, want false")
	}
	s.UpdateHealth(nil, errors.New("two"))
	if !s.Snapshot().IsOffline() {
		t.Fatalf("IsOffline() = false after two failures, want true")
	}
	s.UpdateHealth(&blog.Health{Status: "healthy"}, nil)
	if got := s.Snapshot().ConsecutiveFailures; got != 0 {
		t.Fatalf("ConsecutiveFailures = %d after recovery, want 0", got)
	}
}

func TestStore_RecordCapsHistory(t *testing.T) {
	var s Store

	for i := 0; i < maxSamples+5; i++ {
		s.Record(Sample{PostID: int64(i), Elapsed: time.Millisecond})
	}

	snap := s.Snapshot()
	if len(snap.Samples) != maxSamples {
		t.Fatalf("len(Samples) = %d, want %d", len(snap.Samples), maxSamples)
	}
	if snap.Samples[0].PostID != 5 {
		t.Fatalf("oldest sample id = %d, want 5", snap.Samples[0].PostID)
	}
	if snap.Samples[0].At.IsZero() {
		t.Fatalf("Record should stamp At when unset")
	}

	snap.Samples[0].PostID = 999
	if got := s.Snapshot().Samples[0].PostID; got != 5 {
		t.Fatalf("Snapshot should clone samples; got id %d want 5", got)
	}
}

func TestSnapshot_Latency(t *testing.T) {
	var s Store

	if got := s.Snapshot().Latency(); got != (Latency{}) {
		t.Fatalf("Latency() on empty store = %#v, want zero", got)
	}

	s.Record(Sample{PostID: 1, Elapsed: 2 * time.Second})
	s.Record(Sample{PostID: 2, Elapsed: 4 * time.Second})
	s.Record(Sample{PostID: 9, Err: errors.New("not found")})
	s.Record(Sample{PostID: 2, Elapsed: 3 * time.Second})

	got := s.Snapshot().Latency()
	want := Latency{Last: 3 * time.Second, Average: 3 * time.Second, Count: 3, Repeats: 2}
	if got != want {
		t.Fatalf("Latency() = %#v, want %#v", got, want)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	var s Store
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Record(Sample{PostID: int64(i), Elapsed: time.Duration(i) * time.Millisecond})
			s.UpdateHealth(&blog.Health{Status: "healthy"}, nil)
		}(i)
		go func() {
			defer wg.Done()
			_ = s.Snapshot().Latency()
		}()
	}
	wg.Wait()

	if got := len(s.Snapshot().Samples); got != 8 {
		t.Fatalf("len(Samples) = %d, want 8", got)
	}
}
