package console_test

import (
	"errors"
	"testing"

	"github.com/surgegrid/surge/pkg/console"
	"github.com/surgegrid/surge/pkg/cmp"
)

type record struct {
	id       string
	terminal bool
}

func (r record) Identity() string { return r.id }
func (r record) Settled() bool    { return r.terminal }

func ids(records []record) []string {
	ret := make([]string, len(records))
	for nth, r := range records {
		ret[nth] = r.id
	}
	return ret
}

func TestView_Reconcile(t *testing.T) {
	t.Run("it replaces the collection wholesale, keeping server order", func(t *testing.T) {
		testee := console.View[record]{}

		testee.Reconcile(1, []record{{id: "a"}, {id: "b"}})
		testee.Reconcile(2, []record{{id: "c"}, {id: "a"}})

		actual := ids(testee.Snapshot())
		if !cmp.SliceEq(actual, []string{"c", "a"}) {
			t.Errorf("unexpected collection: %v", actual)
		}
	})

	t.Run("it drops records repeating an id, keeping the first occurrence", func(t *testing.T) {
		testee := console.View[record]{}

		testee.Reconcile(1, []record{
			{id: "a", terminal: false},
			{id: "b"},
			{id: "a", terminal: true},
		})

		snapshot := testee.Snapshot()
		if !cmp.SliceEq(ids(snapshot), []string{"a", "b"}) {
			t.Fatalf("unexpected collection: %v", ids(snapshot))
		}
		if snapshot[0].terminal {
			t.Error("duplicated record took over the first occurrence")
		}
	})

	t.Run("a stale snapshot does not overwrite a newer one", func(t *testing.T) {
		testee := console.View[record]{}

		if applied := testee.Reconcile(2, []record{{id: "new"}}); !applied {
			t.Fatal("fresh snapshot is not applied")
		}
		if applied := testee.Reconcile(1, []record{{id: "old"}}); applied {
			t.Error("stale snapshot is applied")
		}

		actual := ids(testee.Snapshot())
		if !cmp.SliceEq(actual, []string{"new"}) {
			t.Errorf("unexpected collection: %v", actual)
		}
	})

	t.Run("selection survives a refetch while the id still exists", func(t *testing.T) {
		testee := console.View[record]{}
		testee.Reconcile(1, []record{{id: "a"}, {id: "b"}})

		if err := testee.Select("b"); err != nil {
			t.Fatal(err)
		}
		testee.Reconcile(2, []record{{id: "b"}, {id: "c"}})

		selected, ok := testee.Selected()
		if !ok || selected.id != "b" {
			t.Errorf("selection lost by refetch: (%v, %v)", selected, ok)
		}
	})

	t.Run("selection is cleared when the id disappears", func(t *testing.T) {
		testee := console.View[record]{}
		testee.Reconcile(1, []record{{id: "a"}, {id: "b"}})

		if err := testee.Select("b"); err != nil {
			t.Fatal(err)
		}
		testee.Reconcile(2, []record{{id: "a"}, {id: "c"}})

		if _, ok := testee.Selected(); ok {
			t.Error("selection points at a record missing from the collection")
		}
	})

	t.Run("selecting an unknown id is rejected", func(t *testing.T) {
		testee := console.View[record]{}
		testee.Reconcile(1, []record{{id: "a"}})

		if err := testee.Select("missing"); !errors.Is(err, console.ErrNoSuchResource) {
			t.Errorf("unexpected error: %+v", err)
		}
	})
}

func TestView_Settled(t *testing.T) {
	for name, testcase := range map[string]struct {
		records []record
		settled bool
	}{
		"an empty collection is settled": {
			records: []record{}, settled: true,
		},
		"a collection with a non-terminal record is not settled": {
			records: []record{{id: "a", terminal: true}, {id: "b"}},
			settled: false,
		},
		"a collection of terminal records is settled": {
			records: []record{{id: "a", terminal: true}, {id: "b", terminal: true}},
			settled: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			testee := console.View[record]{}
			testee.Reconcile(1, testcase.records)

			if actual := testee.Settled(); actual != testcase.settled {
				t.Errorf("unexpected Settled (actual, expected) = (%v, %v)", actual, testcase.settled)
			}
		})
	}
}
