package loop_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/surgegrid/surge/pkg/loop"
	"github.com/surgegrid/surge/pkg/utils/try"
)

func TestStart(t *testing.T) {
	t.Run("it repeats task until it Breaks", func(t *testing.T) {
		ctx := context.Background()

		expected := 10
		actual, err := loop.Start(ctx, 1, func(ctx context.Context, v int) (int, loop.Next) {
			next := v + 1
			if expected <= next {
				return next, loop.Break(nil)
			}
			return next, loop.Continue(0)
		})
		if err != nil {
			t.Fatal(err)
		}
		if actual != expected {
			t.Errorf("unexpected loop count (actual, expected) = (%d, %d)", actual, expected)
		}
	})

	t.Run("it returns the error passed to Break", func(t *testing.T) {
		ctx := context.Background()
		expectedErr := errors.New("fake error")

		actual, err := loop.Start(ctx, 0, func(ctx context.Context, v int) (int, loop.Next) {
			if 3 <= v {
				return v, loop.Break(expectedErr)
			}
			return v + 1, loop.Continue(0)
		})

		if !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %+v", err)
		}
		if actual != 3 {
			t.Errorf("last value is not returned: %d", actual)
		}
	})

	t.Run("when context has been done before starting, it does nothing", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		actual, err := loop.Start(
			ctx, 1, func(ctx context.Context, v int) (int, loop.Next) {
				return v + 1, loop.Continue(0)
			},
		)

		if !errors.Is(err, context.Canceled) {
			t.Fatal(err)
		}

		if actual != 1 {
			t.Errorf("loop does not honour context")
		}
	})

	t.Run("cancelling context during the interval stops the loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ticks := make(chan struct{}, 1024)
		done := make(chan error, 1)
		go func() {
			_, err := loop.Start(ctx, 0, func(ctx context.Context, v int) (int, loop.Next) {
				ticks <- struct{}{}
				return v + 1, loop.Continue(10 * time.Millisecond)
			})
			done <- err
		}()

		<-ticks // first iteration has run
		cancel()

		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %+v", err)
		}

		// no iteration may fire after cancel has been observed.
		count := len(ticks)
		time.Sleep(50 * time.Millisecond)
		if len(ticks) != count {
			t.Error("task run after the loop stopped")
		}
	})

	t.Run("it passes deadlined context when WithTimeout is passed", func(t *testing.T) {
		ctx := context.Background()

		timeout := 100 * time.Millisecond

		try.To(loop.Start(
			ctx, 1, func(ctx context.Context, v int64) (int64, loop.Next) {
				now := time.Now()

				if deadline, ok := ctx.Deadline(); !ok {
					t.Errorf("deadline is not set")
				} else if !(deadline.Sub(now) <= timeout) {
					t.Errorf(
						"unexpected deadline\n===actual===\n%s\n===expected===\n(near) %s",
						deadline, now.Add(timeout),
					)
				}

				if 3 <= v {
					return v + 1, loop.Break(nil)
				}
				return v + 1, loop.Continue(time.Millisecond)
			},
			loop.WithTimeout(timeout),
		)).OrFatal(t)
	})
}
