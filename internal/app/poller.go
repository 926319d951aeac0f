package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/presence/internal/presence"
)

const defaultPollInterval = 1500 * time.Millisecond

// Poller runs one status reconciliation.
type Poller interface {
	Poll(ctx context.Context) (presence.Status, error)
}

// StartPoller launches a background goroutine that polls immediately and then
// at a fixed cadence until ctx is cancelled. Polls never overlap. It returns
// a channel that is closed when the goroutine exits.
func StartPoller(ctx context.Context, p Poller, interval time.Duration, logger *slog.Logger) <-chan struct{} {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			pollOnce(ctx, p, interval, logger)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return done
}

func pollOnce(ctx context.Context, p Poller, timeout time.Duration, logger *slog.Logger) {
	if ctx.Err() != nil {
		return
	}
	pollCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := p.Poll(pollCtx); err != nil {
		logger.Debug("status poll failed", "error", err)
	}
}
