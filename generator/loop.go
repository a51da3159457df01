package generator

import (
	"context"
	"log/slog"
	"time"
)

// maxBackoff caps the delay after consecutive failed runs.
const maxBackoff = 30 * time.Minute

// Runner is implemented by Generator.
type Runner interface {
	Run(ctx context.Context, targets []Target) (*Run, error)
}

// StartRegenerateLoop regenerates targets every interval until ctx is
// cancelled. When a run cannot prepare the output directory the next attempt
// is delayed with exponential backoff; partial failures keep the normal
// interval. Intervals below one second are raised to one second.
func StartRegenerateLoop(ctx context.Context, r Runner, targets []Target, interval time.Duration, log *slog.Logger) {
	if interval < time.Second {
		interval = time.Second
	}
	go regenerateLoop(ctx, r, targets, interval, log)
}

func regenerateLoop(ctx context.Context, r Runner, targets []Target, interval time.Duration, log *slog.Logger) {
	wait := interval
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("regenerate loop stopped")
			return
		case <-timer.C:
			run, err := r.Run(ctx, targets)
			wait = nextWait(wait, interval, err)
			if err != nil {
				log.Warn("scheduled regeneration failed", "error", err, "next_attempt", wait)
			} else {
				log.Debug("scheduled regeneration finished", "run_id", run.ID, "failed", run.Failed())
			}
			timer.Reset(wait)
		}
	}
}

// nextWait doubles the previous wait after a failed run, capped at
// maxBackoff, and returns to interval after a successful one.
func nextWait(prev, interval time.Duration, err error) time.Duration {
	if err == nil {
		return interval
	}
	next := prev * 2
	if next > maxBackoff {
		next = maxBackoff
	}
	return next
}
