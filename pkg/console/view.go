// Package console keeps client-side view state synchronized with
// server-owned resource collections.
//
// The server is the single source of truth. A View never edits a record:
// it swaps whole snapshots fetched from the server, and only keeps the
// bits of state which are purely client-side, like which record the user
// has selected.
package console

import (
	"errors"
	"fmt"
	"sync"
)

// Resource is a server-owned record shown in a view.
type Resource interface {
	// Identity is the opaque stable id of the record.
	Identity() string

	// Settled reports whether the record reached a terminal status.
	Settled() bool
}

var ErrNoSuchResource = errors.New("no such resource")

// View is (resource collection, selection state) for one mounted view.
//
// Snapshots are applied atomically: readers never observe a half-old,
// half-new collection. Snapshot application is keyed by a sequence
// number, so a response resolving late never overwrites a newer one.
type View[T Resource] struct {
	mu       sync.RWMutex
	records  []T
	selected string
	applied  uint64
}

// Reconcile replaces the collection with the snapshot fetched as seq.
//
// It returns false and leaves the view untouched when a snapshot with a
// sequence >= seq has been applied already (the caller's response is
// stale). Records repeating an earlier record's id within the snapshot
// are dropped, keeping the first occurrence and the server's ordering.
//
// If the selected record's id does not exist in the new collection, the
// selection is cleared, so the view never points at a deleted record.
func (v *View[T]) Reconcile(seq uint64, snapshot []T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if seq <= v.applied {
		return false
	}
	v.applied = seq

	records := make([]T, 0, len(snapshot))
	seen := make(map[string]struct{}, len(snapshot))
	for _, r := range snapshot {
		id := r.Identity()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		records = append(records, r)
	}
	v.records = records

	if v.selected != "" {
		if _, ok := seen[v.selected]; !ok {
			v.selected = ""
		}
	}
	return true
}

// Snapshot returns a copy of the current collection, in server order.
func (v *View[T]) Snapshot() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()

	snapshot := make([]T, len(v.records))
	copy(snapshot, v.records)
	return snapshot
}

// Select marks the record with id as selected.
//
// ErrNoSuchResource when the current collection has no such record.
func (v *View[T]) Select(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, r := range v.records {
		if r.Identity() == id {
			v.selected = id
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNoSuchResource, id)
}

// Selected returns the selected record, if any.
func (v *View[T]) Selected() (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.selected == "" {
		var zero T
		return zero, false
	}
	for _, r := range v.records {
		if r.Identity() == v.selected {
			return r, true
		}
	}

	// unreachable as long as Reconcile keeps the selection invariant
	var zero T
	return zero, false
}

func (v *View[T]) ClearSelection() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = ""
}

// Settled reports whether no record can change anymore. An empty
// collection is settled: there is nothing to poll for.
func (v *View[T]) Settled() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()

	for _, r := range v.records {
		if !r.Settled() {
			return false
		}
	}
	return true
}
