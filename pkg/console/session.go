package console

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/surgegrid/surge/pkg/loop"
)

// Fetch retrieves one snapshot of a resource collection from the server.
type Fetch[T Resource] func(ctx context.Context) ([]T, error)

// Session drives a View: it fetches snapshots (on a poll cadence or on
// demand after a mutating action) and reconciles them into the view.
//
// Refreshes may overlap, e.g. a scheduled poll racing the refetch which
// follows a dispatched action. Each fetch takes a sequence number before
// it goes out, and View.Reconcile drops any response which resolves after
// a newer one has been applied.
type Session[T Resource] struct {
	view     View[T]
	fetch    Fetch[T]
	interval time.Duration
	log      *log.Logger
	seq      atomic.Uint64
}

type SessionOption[T Resource] func(*Session[T]) *Session[T]

// WithInterval sets the poll cadence for Watch. loop.DefaultInterval
// when unset.
func WithInterval[T Resource](d time.Duration) SessionOption[T] {
	return func(s *Session[T]) *Session[T] {
		s.interval = d
		return s
	}
}

func WithLogger[T Resource](l *log.Logger) SessionOption[T] {
	return func(s *Session[T]) *Session[T] {
		s.log = l
		return s
	}
}

func NewSession[T Resource](fetch Fetch[T], options ...SessionOption[T]) *Session[T] {
	s := &Session[T]{
		fetch:    fetch,
		interval: loop.DefaultInterval,
	}
	for _, opt := range options {
		s = opt(s)
	}
	return s
}

// View exposes the session's view state for rendering and selection.
func (s *Session[T]) View() *View[T] {
	return &s.view
}

// Refresh performs one fetch and reconciles the result.
//
// A fetch error leaves the view as it was: the last successfully fetched
// collection keeps being shown until a later Refresh succeeds. If ctx is
// cancelled while the request is in flight, the response is discarded
// and no state is updated.
func (s *Session[T]) Refresh(ctx context.Context) error {
	seq := s.seq.Add(1)

	snapshot, err := s.fetch(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		// resolved after teardown. do not touch the view.
		return ctx.Err()
	}

	s.view.Reconcile(seq, snapshot)
	return nil
}

// Dispatch runs a mutating action against the server.
//
// On success it refetches immediately, so the view reflects the new
// server state without waiting for the next poll tick; a failure of that
// follow-up fetch is only logged (the poll loop will catch up). On action
// failure the view is untouched and the error goes back to the caller,
// who may retry.
func (s *Session[T]) Dispatch(ctx context.Context, action func(ctx context.Context) error) error {
	if err := action(ctx); err != nil {
		return err
	}

	if err := s.Refresh(ctx); err != nil && s.log != nil {
		s.log.Printf("refetch after action failed (keeping last known state): %s", err)
	}
	return nil
}

// Watch polls until every record in the collection is terminal, invoking
// each after every applied snapshot. It returns nil once settled, or
// ctx.Err() when the consumer tears down. No callback runs after Watch
// returns.
func (s *Session[T]) Watch(ctx context.Context, each func(snapshot []T)) error {
	poller := loop.Poller{
		Interval: s.interval,
		Log:      s.log,
		Poll: func(ctx context.Context) (bool, error) {
			if err := s.Refresh(ctx); err != nil {
				return false, err
			}
			if each != nil {
				each(s.view.Snapshot())
			}
			return s.view.Settled(), nil
		},
	}
	return poller.Run(ctx)
}
