package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/br-lazy-bird/content-delivery/internal/blog"
	"github.com/br-lazy-bird/content-delivery/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
	healthTimeout       = 5 * time.Second
)

// HealthChecker is the part of the blog client the poller uses.
type HealthChecker interface {
	FetchHealth(ctx context.Context) (blog.Health, error)
}

// StartPoller launches a background goroutine that refreshes the store's
// health at interval, backing off while the backend is unreachable. It
// returns immediately; the returned channel closes once the goroutine exits
// after ctx is cancelled.
func StartPoller(ctx context.Context, store *state.Store, client HealthChecker, interval time.Duration, log *zap.Logger) <-chan struct{} {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			refresh(ctx, store, client, log)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
	return done
}

// calculateBackoff doubles the interval for each consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	backoff := interval
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

func refresh(ctx context.Context, store *state.Store, client HealthChecker, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	health, err := client.FetchHealth(ctx)
	if err != nil {
		// Shutdown is not an outage.
		if errors.Is(ctx.Err(), context.Canceled) {
			return err
		}
		store.UpdateHealth(nil, err)
		log.Warn("health poll failed", zap.Error(err))
		return err
	}
	store.UpdateHealth(&health, nil)
	return nil
}
