package loop_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/surgegrid/surge/pkg/loop"
)

func TestPoller(t *testing.T) {
	t.Run("it polls immediately, then on interval, until settled", func(t *testing.T) {
		ctx := context.Background()

		polls := int32(0)
		testee := loop.Poller{
			Interval: time.Millisecond,
			Poll: func(ctx context.Context) (bool, error) {
				n := atomic.AddInt32(&polls, 1)
				return 3 <= n, nil
			},
		}

		start := time.Now()
		if err := testee.Run(ctx); err != nil {
			t.Fatal(err)
		}

		if actual := atomic.LoadInt32(&polls); actual != 3 {
			t.Errorf("unexpected poll count (actual, expected) = (%d, 3)", actual)
		}
		if elapsed := time.Since(start); elapsed < 2*time.Millisecond {
			t.Errorf("polls are not spaced by interval: took %s", elapsed)
		}
	})

	t.Run("no poll fires after the consumer tears down", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		polls := int32(0)
		first := make(chan struct{})
		once := int32(0)
		testee := loop.Poller{
			Interval: time.Millisecond,
			Poll: func(ctx context.Context) (bool, error) {
				atomic.AddInt32(&polls, 1)
				if atomic.CompareAndSwapInt32(&once, 0, 1) {
					close(first)
				}
				return false, nil
			},
		}

		done := make(chan error, 1)
		go func() { done <- testee.Run(ctx) }()

		<-first
		cancel()

		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %+v", err)
		}

		settledCount := atomic.LoadInt32(&polls)
		time.Sleep(20 * time.Millisecond)
		if actual := atomic.LoadInt32(&polls); actual != settledCount {
			t.Error("poll fired after teardown")
		}
	})

	t.Run("a failed poll degrades to no data this cycle, and polling continues", func(t *testing.T) {
		ctx := context.Background()

		polls := int32(0)
		testee := loop.Poller{
			Interval: time.Millisecond,
			Poll: func(ctx context.Context) (bool, error) {
				n := atomic.AddInt32(&polls, 1)
				if n == 1 {
					return false, errors.New("fake network error")
				}
				return true, nil
			},
		}

		if err := testee.Run(ctx); err != nil {
			t.Errorf("poll error should not stop the poller: %+v", err)
		}

		if actual := atomic.LoadInt32(&polls); actual != 2 {
			t.Errorf("unexpected poll count (actual, expected) = (%d, 2)", actual)
		}
	})

	t.Run("once settled, no further poll fires", func(t *testing.T) {
		ctx := context.Background()

		polls := int32(0)
		testee := loop.Poller{
			Interval: time.Millisecond,
			Poll: func(ctx context.Context) (bool, error) {
				atomic.AddInt32(&polls, 1)
				return true, nil
			},
		}

		if err := testee.Run(ctx); err != nil {
			t.Fatal(err)
		}

		time.Sleep(10 * time.Millisecond)
		if actual := atomic.LoadInt32(&polls); actual != 1 {
			t.Errorf("poll fired after the collection settled: %d", actual)
		}
	})
}
