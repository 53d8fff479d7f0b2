package loop

import (
	"context"
	"log"
	"time"
)

// DefaultInterval suits volatile collections (running jobs).
// QuietInterval suits collections which rarely change (deployed models).
const (
	DefaultInterval = 10 * time.Second
	QuietInterval   = 30 * time.Second
)

// Poller repeats a poll on a fixed cadence.
//
// The first poll fires immediately. Polling stops when ctx is cancelled,
// or when Poll reports the watched collection settled (every record
// terminal), so no traffic is spent on work that cannot change anymore.
//
// A poll error is not fatal: it is logged and the next tick fires as
// scheduled. Whatever state the consumer accumulated from earlier polls
// stays as is.
type Poller struct {
	// Poll fetches and applies one snapshot.
	// Return settled=true to stop polling for good.
	Poll func(ctx context.Context) (settled bool, err error)

	// Interval between polls. DefaultInterval when zero.
	Interval time.Duration

	// Log for degraded cycles. Discarded when nil.
	Log *log.Logger
}

// Run blocks until the collection settles (nil), or ctx is cancelled
// (ctx.Err()).
func (p Poller) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	_, err := Start(ctx, struct{}{}, func(ctx context.Context, _ struct{}) (struct{}, Next) {
		settled, err := p.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				// teardown, not a degraded cycle
				return struct{}{}, Break(ctx.Err())
			}
			if p.Log != nil {
				p.Log.Printf("poll failed (keeping last known state): %s", err)
			}
			return struct{}{}, Continue(interval)
		}
		if settled {
			return struct{}{}, Break(nil)
		}
		return struct{}{}, Continue(interval)
	})
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
