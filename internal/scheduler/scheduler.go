package scheduler

import (
	"context"
	"log"
	"time"
)

type Task func(ctx context.Context) error

// Every runs task now and then on each tick until ctx is done. Runs never
// overlap; a tick that fires during a run is dropped by the ticker.
func Every(ctx context.Context, interval time.Duration, name string, logger *log.Logger, task Task) {
	if logger == nil {
		logger = log.Default()
	}
	run := func() {
		if err := task(ctx); err != nil {
			logger.Printf("[%s] error: %v", name, err)
		}
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	run()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
