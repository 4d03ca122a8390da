package services

import (
	"context"
	"time"
)

// Delay waits for d or until ctx is done, whichever comes first. It returns
// ctx.Err() when the wait was cut short.
type Delay func(ctx context.Context, d time.Duration) error

// Sleep is the Delay used in production.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoDelay returns immediately. Tests use it to run accessors synchronously.
func NoDelay(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// Latency holds the simulated latency of each accessor.
type Latency struct {
	Metadata time.Duration
	Post     time.Duration
	Comments time.Duration
}

// DefaultLatency waits one second on every accessor.
func DefaultLatency() Latency {
	return Latency{
		Metadata: time.Second,
		Post:     time.Second,
		Comments: time.Second,
	}
}
