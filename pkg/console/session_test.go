package console_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/surgegrid/surge/pkg/cmp"
	"github.com/surgegrid/surge/pkg/console"
)

func TestSession_Refresh(t *testing.T) {
	t.Run("a failed fetch retains the previously displayed collection", func(t *testing.T) {
		ctx := context.Background()

		calls := 0
		testee := console.NewSession(func(ctx context.Context) ([]record, error) {
			calls += 1
			if calls == 1 {
				return []record{{id: "a"}}, nil
			}
			return nil, errors.New("fake network error")
		})

		if err := testee.Refresh(ctx); err != nil {
			t.Fatal(err)
		}
		if err := testee.Refresh(ctx); err == nil {
			t.Fatal("fetch error is swallowed")
		}

		actual := ids(testee.View().Snapshot())
		if !cmp.SliceEq(actual, []string{"a"}) {
			t.Errorf("stale data is dropped on fetch failure: %v", actual)
		}
	})

	t.Run("a response resolving after teardown does not update the view", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		inFlight := make(chan struct{})
		testee := console.NewSession(func(ctx context.Context) ([]record, error) {
			close(inFlight)
			<-ctx.Done() // simulate a request still in flight at teardown
			return []record{{id: "late"}}, nil
		})

		done := make(chan error, 1)
		go func() { done <- testee.Refresh(ctx) }()

		<-inFlight
		cancel()

		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %+v", err)
		}
		if actual := testee.View().Snapshot(); len(actual) != 0 {
			t.Errorf("view updated after teardown: %v", ids(actual))
		}
	})

	t.Run("overlapping fetches apply latest-wins", func(t *testing.T) {
		ctx := context.Background()

		var mu sync.Mutex
		blockers := map[int]chan []record{}
		calls := 0
		testee := console.NewSession(func(ctx context.Context) ([]record, error) {
			mu.Lock()
			calls += 1
			ch := make(chan []record)
			blockers[calls] = ch
			mu.Unlock()
			return <-ch, nil
		})

		first := make(chan error, 1)
		go func() { first <- testee.Refresh(ctx) }()
		for {
			mu.Lock()
			_, ok := blockers[1]
			mu.Unlock()
			if ok {
				break
			}
			time.Sleep(time.Millisecond)
		}

		second := make(chan error, 1)
		go func() { second <- testee.Refresh(ctx) }()
		for {
			mu.Lock()
			_, ok := blockers[2]
			mu.Unlock()
			if ok {
				break
			}
			time.Sleep(time.Millisecond)
		}

		// the newer fetch resolves first; the older one resolves late.
		blockers[2] <- []record{{id: "newer"}}
		if err := <-second; err != nil {
			t.Fatal(err)
		}
		blockers[1] <- []record{{id: "older"}}
		if err := <-first; err != nil {
			t.Fatal(err)
		}

		actual := ids(testee.View().Snapshot())
		if !cmp.SliceEq(actual, []string{"newer"}) {
			t.Errorf("stale in-flight response overwrote a newer one: %v", actual)
		}
	})
}

func TestSession_Dispatch(t *testing.T) {
	t.Run("a successful action triggers an immediate refetch", func(t *testing.T) {
		ctx := context.Background()

		fetches := 0
		testee := console.NewSession(func(ctx context.Context) ([]record, error) {
			fetches += 1
			return []record{{id: "created", terminal: false}}, nil
		})

		dispatched := false
		err := testee.Dispatch(ctx, func(ctx context.Context) error {
			dispatched = true
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}

		if !dispatched {
			t.Error("action did not run")
		}
		if fetches != 1 {
			t.Errorf("refetch did not follow the action: %d fetches", fetches)
		}
		if actual := ids(testee.View().Snapshot()); !cmp.SliceEq(actual, []string{"created"}) {
			t.Errorf("view does not reflect post-action state: %v", actual)
		}
	})

	t.Run("a failed action leaves state untouched and surfaces the error", func(t *testing.T) {
		ctx := context.Background()

		fetches := 0
		testee := console.NewSession(func(ctx context.Context) ([]record, error) {
			fetches += 1
			return []record{{id: "a"}}, nil
		})
		if err := testee.Refresh(ctx); err != nil {
			t.Fatal(err)
		}

		expectedErr := errors.New("quota exceeded")
		err := testee.Dispatch(ctx, func(ctx context.Context) error {
			return expectedErr
		})
		if !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %+v", err)
		}

		if fetches != 1 {
			t.Error("refetch fired although the action failed")
		}
		if actual := ids(testee.View().Snapshot()); !cmp.SliceEq(actual, []string{"a"}) {
			t.Errorf("view changed on action failure: %v", actual)
		}
	})
}

func TestSession_Watch(t *testing.T) {
	t.Run("it renders each cycle and stops when the collection settles", func(t *testing.T) {
		ctx := context.Background()

		phase := 0
		testee := console.NewSession(
			func(ctx context.Context) ([]record, error) {
				phase += 1
				switch phase {
				case 1:
					return []record{{id: "j1", terminal: false}}, nil
				default:
					return []record{{id: "j1", terminal: true}}, nil
				}
			},
			console.WithInterval[record](time.Millisecond),
		)

		rendered := [][]string{}
		if err := testee.Watch(ctx, func(snapshot []record) {
			rendered = append(rendered, ids(snapshot))
		}); err != nil {
			t.Fatal(err)
		}

		if len(rendered) != 2 {
			t.Fatalf("unexpected render count: %d", len(rendered))
		}
		if !cmp.SliceEq(rendered[0], []string{"j1"}) || !cmp.SliceEq(rendered[1], []string{"j1"}) {
			t.Errorf("unexpected renders: %v", rendered)
		}
	})

	t.Run("teardown cancels the watch and no callback runs after", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		testee := console.NewSession(
			func(ctx context.Context) ([]record, error) {
				return []record{{id: "busy", terminal: false}}, nil
			},
			console.WithInterval[record](time.Millisecond),
		)

		var mu sync.Mutex
		renders := 0
		first := make(chan struct{})
		once := sync.Once{}

		done := make(chan error, 1)
		go func() {
			done <- testee.Watch(ctx, func([]record) {
				mu.Lock()
				renders += 1
				mu.Unlock()
				once.Do(func() { close(first) })
			})
		}()

		<-first
		cancel()
		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %+v", err)
		}

		mu.Lock()
		settled := renders
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		after := renders
		mu.Unlock()
		if settled != after {
			t.Error("render callback ran after teardown")
		}
	})
}
