package generator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingRunner struct {
	calls atomic.Int32
}

func (c *countingRunner) Run(ctx context.Context, targets []Target) (*Run, error) {
	c.calls.Add(1)
	return &Run{ID: "r"}, nil
}

func TestRegenerateLoopRunsAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &countingRunner{}

	done := make(chan struct{})
	go func() {
		regenerateLoop(ctx, r, nil, 10*time.Millisecond, discardLogger())
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 3 }, 5*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop after cancel")
	}
}

func TestNextWait(t *testing.T) {
	interval := time.Minute
	failed := errors.New("disk full")

	tests := []struct {
		name string
		prev time.Duration
		err  error
		want time.Duration
	}{
		{"success keeps interval", interval, nil, interval},
		{"success resets backoff", 8 * time.Minute, nil, interval},
		{"failure doubles", interval, failed, 2 * time.Minute},
		{"failure doubles again", 2 * time.Minute, failed, 4 * time.Minute},
		{"failure capped", 20 * time.Minute, failed, maxBackoff},
		{"at cap stays", maxBackoff, failed, maxBackoff},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextWait(tt.prev, interval, tt.err))
		})
	}
}
