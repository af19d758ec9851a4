package ledger

import "sync"

// #region ledger

// Ledger is an append-only in-memory log of request descriptors. Entries
// arrive from rejected and processed requests; the tuner drains them. Only
// the length is consumed by adaptation, the entries themselves are kept for
// inspection.
type Ledger struct {
	mu      sync.Mutex
	entries []string
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// #endregion ledger

// #region operations

// Append records one entry. Order is lock-acquisition order.
func (l *Ledger) Append(entry string) {
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
}

// Len returns the current entry count.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Snapshot returns a copy of all entries in arrival order.
func (l *Ledger) Snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Drain clears the ledger and returns the drained entries.
func (l *Ledger) Drain() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.entries
	l.entries = nil
	return out
}

// #endregion operations
