package socialposts

import (
	"context"
	"log/slog"
	"time"
)

// RunEvery calls fn every interval until ctx is done. With immediate set the
// first call happens at once. Errors from fn are logged and do not stop the
// loop.
func RunEvery(ctx context.Context, log *slog.Logger, job string, interval time.Duration, immediate bool, fn func(context.Context) error) error {
	if interval <= 0 {
		interval = time.Hour
	}
	run := func() {
		start := time.Now()
		if err := fn(ctx); err != nil {
			log.Error("job failed", "job", job, "err", err)
			return
		}
		log.Info("job finished", "job", job, "duration_ms", time.Since(start).Milliseconds())
	}

	if immediate {
		run()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			run()
		}
	}
}
