package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/br-lazy-bird/content-delivery/internal/blog"
)

// maxSamples bounds the latency history kept for the metrics panel.
const maxSamples = 50

// Sample is one measured post fetch.
type Sample struct {
	PostID  int64
	Title   string
	Elapsed time.Duration
	At      time.Time
	Err     error
}

// Latency summarises the recorded samples.
type Latency struct {
	Last    time.Duration
	Average time.Duration
	Count   int
	// Repeats counts how many times the most recent post id was fetched.
	Repeats int
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Health              blog.Health
	HasHealth           bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
	Samples             []Sample
}

// IsOffline returns true when the backend has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Latency computes the stats over successful samples.
func (s Snapshot) Latency() Latency {
	var (
		out   Latency
		total time.Duration
	)
	for _, sample := range s.Samples {
		if sample.Err != nil {
			continue
		}
		out.Count++
		total += sample.Elapsed
		out.Last = sample.Elapsed
	}
	if out.Count == 0 {
		return Latency{}
	}
	out.Average = total / time.Duration(out.Count)

	lastID := int64(-1)
	for i := len(s.Samples) - 1; i >= 0; i-- {
		if s.Samples[i].Err == nil {
			lastID = s.Samples[i].PostID
			break
		}
	}
	for _, sample := range s.Samples {
		if sample.Err == nil && sample.PostID == lastID {
			out.Repeats++
		}
	}
	return out
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// UpdateHealth records a health poll. When err is non-nil the previous health
// is kept but the error is recorded for visibility.
func (s *Store) UpdateHealth(health *blog.Health, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if health != nil {
		s.snapshot.Health = *health
		s.snapshot.HasHealth = true
	} else {
		s.snapshot.HasHealth = false
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Record appends a fetch sample, dropping the oldest beyond maxSamples.
func (s *Store) Record(sample Sample) {
	if sample.At.IsZero() {
		sample.At = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Samples = append(s.snapshot.Samples, sample)
	if over := len(s.snapshot.Samples) - maxSamples; over > 0 {
		s.snapshot.Samples = append([]Sample(nil), s.snapshot.Samples[over:]...)
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Samples = cloneSamples(s.snapshot.Samples)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneSamples(items []Sample) []Sample {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Sample, len(items))
	copy(dup, items)
	return dup
}
