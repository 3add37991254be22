package maintenance

import (
	"context"
	"time"
)

const defaultSweepInterval = time.Hour

// Worker drives periodic sweeps. It keeps the cadence out of the sweeper so
// tests and the admin endpoint can trigger sweeps directly.
type Worker struct {
	sweeper  *Sweeper
	interval time.Duration
}

// NewWorker constructs a worker. A non-positive interval falls back to one
// hour.
func NewWorker(sweeper *Sweeper, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Worker{sweeper: sweeper, interval: interval}
}

// Run sweeps on every tick until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.sweeper.Sweep(ctx)
		}
	}
}
