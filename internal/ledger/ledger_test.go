package ledger

import (
	"fmt"
	"sync"
	"testing"
)

func TestAppendPreservesOrder(t *testing.T) {
	l := New()
	for i := 0; i < 5; i++ {
		l.Append(fmt.Sprintf("entry-%d", i))
	}
	got := l.Snapshot()
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	for i, e := range got {
		if e != fmt.Sprintf("entry-%d", i) {
			t.Fatalf("entry %d = %q, out of order", i, e)
		}
	}
}

func TestDrainClearsAndReturns(t *testing.T) {
	l := New()
	l.Append("a")
	l.Append("b")

	drained := l.Drain()
	if len(drained) != 2 {
		t.Fatalf("drained %d entries, want 2", len(drained))
	}
	if l.Len() != 0 {
		t.Fatalf("len after drain = %d, want 0", l.Len())
	}

	// Ledger remains usable after a drain.
	l.Append("c")
	if l.Len() != 1 {
		t.Fatalf("len = %d, want 1", l.Len())
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	l := New()
	l.Append("a")
	snap := l.Snapshot()
	snap[0] = "mutated"
	if l.Snapshot()[0] != "a" {
		t.Fatal("snapshot aliased internal storage")
	}
}

func TestConcurrentAppends(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Append("x")
		}()
	}
	wg.Wait()
	if l.Len() != 50 {
		t.Fatalf("len = %d, want 50", l.Len())
	}
}
